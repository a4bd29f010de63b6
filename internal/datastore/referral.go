package datastore

import (
	"context"
	"time"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePendingReferralReward(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.PendingReferralReward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PendingReferralReward)(nil)).Index("index_pending_referral_reward_referrer_id").IfNotExists().Column("referrer_id", "is_claimed").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPendingReferralRewards(ctx context.Context, db bun.IDB, rewards ...*models.PendingReferralReward) error {
	if len(rewards) == 0 {
		return nil
	}

	_, err := db.NewInsert().Model(&rewards).Exec(ctx)
	return err
}

// ClaimPendingReferralRewards flips every unclaimed reward of the referrer and returns only
// the rows flipped by this statement.
func ClaimPendingReferralRewards(ctx context.Context, db bun.IDB, referrerID int64, claimedAt time.Time) ([]*models.PendingReferralReward, error) {
	rewards := []*models.PendingReferralReward{}
	_, err := db.NewUpdate().
		Model((*models.PendingReferralReward)(nil)).
		Set("is_claimed = ?", true).
		Set("claimed_at = ?", claimedAt).
		Where("referrer_id = ?", referrerID).
		Where("is_claimed = ?", false).
		Returning("*").
		Exec(ctx, &rewards)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func GetPendingRewardDetails(ctx context.Context, db bun.IDB, referrerID int64) ([]*models.PendingRewardDetail, error) {
	details := []*models.PendingRewardDetail{}
	err := db.NewSelect().
		ColumnExpr("r.referee_id, u.username, u.registration_date").
		ColumnExpr("SUM(r.coins) AS coins, SUM(r.tickets) AS tickets").
		TableExpr("pending_referral_reward AS r").
		Join("JOIN ? AS u ON u.id = r.referee_id", bun.Ident("user")).
		Where("r.referrer_id = ?", referrerID).
		Where("r.is_claimed = ?", false).
		Group("r.referee_id", "u.username", "u.registration_date").
		Order("r.referee_id ASC").
		Scan(ctx, &details)
	if err != nil {
		return nil, err
	}

	return details, nil
}
