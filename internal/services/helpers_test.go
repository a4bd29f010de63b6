package services

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/do"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/testutil"
)

func newTestEnv(t *testing.T) *testutil.Env {
	t.Helper()
	env := testutil.New(t)
	Provide(env.Container)
	return env
}

func invoke[T any](t *testing.T, env *testutil.Env) T {
	t.Helper()
	service, err := do.Invoke[T](env.Container)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	return service
}

func reloadUser(t *testing.T, env *testutil.Env, userID int64) *models.User {
	t.Helper()
	user, err := datastore.FindUserByID(context.Background(), env.DB, userID)
	if err != nil {
		t.Fatalf("reload user %d: %v", userID, err)
	}
	return user
}

func earningsOf(t *testing.T, env *testutil.Env, userID int64) []*models.Earning {
	t.Helper()
	earnings, err := datastore.GetEarningsByUser(context.Background(), env.DB, userID, 100, 0)
	if err != nil {
		t.Fatalf("earnings of %d: %v", userID, err)
	}
	return earnings
}

func pendingOf(t *testing.T, env *testutil.Env, referrerID int64) []*models.PendingReferralReward {
	t.Helper()
	rewards := []*models.PendingReferralReward{}
	err := env.DB.NewSelect().
		Model(&rewards).
		Where("referrer_id = ?", referrerID).
		Where("is_claimed = ?", false).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		t.Fatalf("pending of %d: %v", referrerID, err)
	}
	return rewards
}

func createTask(t *testing.T, env *testutil.Env, name string, coins, tickets int64) *models.Task {
	t.Helper()
	task := &models.Task{Name: name, RewardCoins: coins, RewardTickets: tickets, Type: "social"}
	if err := datastore.InsertTask(context.Background(), env.DB, task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return task
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
}
