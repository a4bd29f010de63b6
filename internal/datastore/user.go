package datastore

import (
	"context"
	"time"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_tg_id").Unique().IfNotExists().Column("tg_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_parent_id").IfNotExists().Column("parent_id").Exec(ctx)
	if err != nil {
		return err
	}

	for _, column := range []string{"game_high_score", "weekly_high_score", "daily_high_score"} {
		_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_" + column).IfNotExists().Column(column).Exec(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

func FindUserByID(ctx context.Context, db bun.IDB, userID int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByTgID(ctx context.Context, db bun.IDB, tgID int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("tg_id = ?", tgID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db bun.IDB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func UpdateUserProfile(ctx context.Context, db bun.IDB, user *models.User) error {
	_, err := db.NewUpdate().
		Model(user).
		Column("username", "first_name", "last_name", "photo_url", "language", "region", "last_login_date", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// AddUserBalances applies deltas in place and loads the resulting balances into user.
func AddUserBalances(ctx context.Context, db bun.IDB, user *models.User, coins, tokens, tickets int64, now time.Time) error {
	_, err := db.NewUpdate().
		Model(user).
		Set("coins = coins + ?", coins).
		Set("tokens = tokens + ?", tokens).
		Set("tickets = tickets + ?", tickets).
		Set("updated_at = ?", now).
		WherePK().
		Returning("coins, tokens, tickets").
		Exec(ctx)
	return err
}

func UpdateUserScores(ctx context.Context, db bun.IDB, user *models.User) error {
	_, err := db.NewUpdate().
		Model(user).
		Column("game_high_score", "weekly_high_score", "daily_high_score", "last_score_update", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func GetReferralsByParent(ctx context.Context, db bun.IDB, parentID int64) ([]*models.Referral, error) {
	var referrals []*models.Referral
	earnings := db.NewSelect().
		Model((*models.Earning)(nil)).
		ColumnExpr("source_id, SUM(amount) AS total").
		Where("user_id = ?", parentID).
		Where("source_type = ?", models.SourceReferralReward).
		Where("currency = ?", models.CurrencyCoins).
		Group("source_id")
	children := db.NewSelect().
		Model((*models.User)(nil)).
		ColumnExpr("parent_id, COUNT(*) AS count").
		Where("parent_id IS NOT NULL").
		Group("parent_id")

	err := db.NewSelect().
		ColumnExpr("u.id, u.username, u.registration_date").
		ColumnExpr("COALESCE(e.total, 0) AS total_earned").
		ColumnExpr("COALESCE(c.count, 0) AS indirect_count").
		TableExpr("? AS u", bun.Ident("user")).
		Join("LEFT JOIN (?) AS e ON e.source_id = u.id", earnings).
		Join("LEFT JOIN (?) AS c ON c.parent_id = u.id", children).
		Where("u.parent_id = ?", parentID).
		Order("u.registration_date DESC", "u.id DESC").
		Scan(ctx, &referrals)
	if err != nil {
		return nil, err
	}

	return referrals, nil
}

func UserExists(ctx context.Context, db bun.IDB, userID int64) (bool, error) {
	return db.NewSelect().Model((*models.User)(nil)).Where("id = ?", userID).Exists(ctx)
}
