package models

import "github.com/uptrace/bun"

type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_item"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Description   string `bun:"description" json:"description"`
	ItemType      string `bun:"item_type" json:"item_type"`
}

type UserInventory struct {
	bun.BaseModel   `bun:"table:user_inventory"`
	ID              int64 `bun:"id,pk,autoincrement" json:"id"`
	UserID          int64 `bun:"user_id,notnull" json:"user_id"`
	InventoryItemID int64 `bun:"inventory_item_id,notnull" json:"inventory_item_id"`
	Quantity        int64 `bun:"quantity,notnull,default:0" json:"quantity"`

	Item *InventoryItem `bun:"rel:belongs-to,join:inventory_item_id=id" json:"item,omitempty"`
}
