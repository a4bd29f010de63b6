package datastore

import (
	"context"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableInventoryItem(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.InventoryItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.InventoryItem)(nil)).Index("index_inventory_item_name").Unique().IfNotExists().Column("name").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableUserInventory(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.UserInventory)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserInventory)(nil)).Index("index_user_inventory_user_id_item_id").Unique().IfNotExists().Column("user_id", "inventory_item_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertInventoryItem(ctx context.Context, db bun.IDB, item *models.InventoryItem) error {
	_, err := db.NewInsert().Model(item).On("CONFLICT (name) DO NOTHING").Exec(ctx)
	return skipNoRows(err)
}

func GetInventoryItems(ctx context.Context, db bun.IDB) ([]*models.InventoryItem, error) {
	items := []*models.InventoryItem{}
	err := db.NewSelect().Model(&items).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func FindInventoryItemByID(ctx context.Context, db bun.IDB, itemID int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := db.NewSelect().Model(&item).Where("id = ?", itemID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func GetUserInventory(ctx context.Context, db bun.IDB, userID int64) ([]*models.UserInventory, error) {
	inventory := []*models.UserInventory{}
	err := db.NewSelect().
		Model(&inventory).
		Relation("Item").
		Where("user_inventory.user_id = ?", userID).
		Order("user_inventory.inventory_item_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return inventory, nil
}

func FindUserInventory(ctx context.Context, db bun.IDB, userID, itemID int64) (*models.UserInventory, error) {
	var entry models.UserInventory
	err := db.NewSelect().
		Model(&entry).
		Where("user_id = ?", userID).
		Where("inventory_item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddUserInventory upserts the holding, adding quantity to an existing row.
func AddUserInventory(ctx context.Context, db bun.IDB, entry *models.UserInventory) error {
	_, err := db.NewInsert().
		Model(entry).
		On("CONFLICT (user_id, inventory_item_id) DO UPDATE").
		Set("quantity = user_inventory.quantity + EXCLUDED.quantity").
		Returning("*").
		Exec(ctx)
	return err
}

func SetUserInventoryQuantity(ctx context.Context, db bun.IDB, entry *models.UserInventory) error {
	_, err := db.NewUpdate().Model(entry).Column("quantity").WherePK().Exec(ctx)
	return err
}

func DeleteUserInventory(ctx context.Context, db bun.IDB, entry *models.UserInventory) error {
	_, err := db.NewDelete().Model(entry).WherePK().Exec(ctx)
	return err
}
