package main

import (
	"context"

	"github.com/uptrace/bun"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/services"
)

var seedTasks = []*models.Task{
	{Name: "Join the Droppu channel", Description: "Subscribe to our Telegram announcements", RewardCoins: 500, RewardTickets: 1, Link: "https://t.me/droppu", Type: "social"},
	{Name: "Follow Droppu on X", Description: "Follow our X account", RewardCoins: 300, Link: "https://x.com/droppu", Type: "social"},
	{Name: "Invite a friend", Description: "Share your referral link", RewardCoins: 1000, RewardTickets: 2, Type: "referral"},
	{Name: "Play your first game", Description: "Finish one game session", RewardCoins: 200, RewardTokens: 5, Type: "game"},
}

var seedItems = []*models.InventoryItem{
	{Name: "Magnet", Description: "Pulls nearby coins for one run", ItemType: "boost"},
	{Name: "Shield", Description: "Survive one hit", ItemType: "boost"},
	{Name: "Golden Skin", Description: "Cosmetic player skin", ItemType: "cosmetic"},
}

var seedConfigs = []*models.Config{
	{Key: services.CONFIG_LEADERBOARD_MAX_LIMIT, Value: "500"},
	{Key: services.CONFIG_PAYMENT_EXPIRE_HOURS, Value: "24"},
	{Key: services.CONFIG_CRONJOB_TIME_PAYMENT_EXPIRY, Value: "*/10 * * * *"},
	{Key: services.CONFIG_CRONJOB_TIME_LEADERBOARD, Value: "0 0 * * *"},
	{Key: services.CONFIG_TEXT_NEW_REFERRAL, Value: services.MessageNewReferral},
}

// seed is idempotent: rows that already exist are left untouched.
func seed(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, config := range seedConfigs {
			if err := datastore.InsertConfig(ctx, tx, config); err != nil {
				return err
			}
		}

		for _, task := range seedTasks {
			if err := datastore.InsertTask(ctx, tx, &models.Task{
				Name:          task.Name,
				Description:   task.Description,
				RewardCoins:   task.RewardCoins,
				RewardTokens:  task.RewardTokens,
				RewardTickets: task.RewardTickets,
				Link:          task.Link,
				Type:          task.Type,
			}); err != nil {
				return err
			}
		}

		for _, item := range seedItems {
			if err := datastore.InsertInventoryItem(ctx, tx, &models.InventoryItem{
				Name:        item.Name,
				Description: item.Description,
				ItemType:    item.ItemType,
			}); err != nil {
				return err
			}
		}

		return nil
	})
}
