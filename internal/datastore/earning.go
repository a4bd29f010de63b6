package datastore

import (
	"context"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableEarning(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Earning)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Earning)(nil)).Index("index_earning_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertEarnings(ctx context.Context, db bun.IDB, earnings ...*models.Earning) error {
	if len(earnings) == 0 {
		return nil
	}

	_, err := db.NewInsert().Model(&earnings).Exec(ctx)
	return err
}

func GetEarningsByUser(ctx context.Context, db bun.IDB, userID int64, limit, offset int) ([]*models.Earning, error) {
	earnings := []*models.Earning{}
	err := db.NewSelect().
		Model(&earnings).
		Where("user_id = ?", userID).
		Order("date DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return earnings, nil
}
