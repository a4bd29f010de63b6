package main

import (
	"context"
	"testing"

	"droppu/internal/datastore"
	"droppu/internal/pkg/database"
	"droppu/internal/services"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite("file:seed_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := datastore.CreateTables(ctx, db); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := seed(ctx, db); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	tasks, err := datastore.GetTasks(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != len(seedTasks) {
		t.Errorf("tasks = %d, want %d", len(tasks), len(seedTasks))
	}

	items, err := datastore.GetInventoryItems(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != len(seedItems) {
		t.Errorf("items = %d, want %d", len(items), len(seedItems))
	}

	config, err := datastore.GetConfigByKey(ctx, db, services.CONFIG_PAYMENT_EXPIRE_HOURS)
	if err != nil {
		t.Fatal(err)
	}
	if config.Value != "24" {
		t.Errorf("%s = %q, want 24", config.Key, config.Value)
	}
}
