package datastore

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateTables creates every table and index. It is safe to run repeatedly.
func CreateTables(ctx context.Context, db bun.IDB) error {
	steps := []func(context.Context, bun.IDB) error{
		CreateTableConfig,
		CreateTableUser,
		CreateTableEarning,
		CreateTablePendingReferralReward,
		CreateTableGameSession,
		CreateTableTask,
		CreateTableUserTask,
		CreateTableInventoryItem,
		CreateTableUserInventory,
		CreateTablePayment,
	}

	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}

	return nil
}
