package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/pkg/caching"
)

type ServiceInventory struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceInventory(container *do.Injector) (*ServiceInventory, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceInventory{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceInventory) GetItems(ctx context.Context) ([]*models.InventoryItem, error) {
	callback := func() ([]*models.InventoryItem, error) {
		return datastore.GetInventoryItems(ctx, service.readonlyPostgresDB)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyInventoryItems(), CACHE_TTL_1_HOUR, callback)
}

func (service *ServiceInventory) GetUserInventory(ctx context.Context, userID int64) ([]*models.UserInventory, error) {
	return datastore.GetUserInventory(ctx, service.postgresDB, userID)
}

// AddItem adds quantity of the item to the user's holding. A zero quantity means one.
func (service *ServiceInventory) AddItem(ctx context.Context, userID, itemID, quantity int64) (*models.UserInventory, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if err := ensureUser(ctx, service.postgresDB, userID); err != nil {
		return nil, err
	}

	item, err := datastore.FindInventoryItemByID(ctx, service.postgresDB, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	entry := &models.UserInventory{
		UserID:          userID,
		InventoryItemID: itemID,
		Quantity:        quantity,
	}
	if err := datastore.AddUserInventory(ctx, service.postgresDB, entry); err != nil {
		return nil, err
	}

	entry.Item = item
	return entry, nil
}

// RemoveItem takes quantity of the item away and drops the holding once it reaches zero.
// The returned holding has zero quantity when the row was removed.
func (service *ServiceInventory) RemoveItem(ctx context.Context, userID, itemID, quantity int64) (*models.UserInventory, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var entry *models.UserInventory
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		entry, err = datastore.FindUserInventory(ctx, tx, userID, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotInInventory
		}
		if err != nil {
			return err
		}

		entry.Quantity -= quantity
		if entry.Quantity <= 0 {
			entry.Quantity = 0
			return datastore.DeleteUserInventory(ctx, tx, entry)
		}
		return datastore.SetUserInventoryQuantity(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}
