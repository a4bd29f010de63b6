package main

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/services"
	"droppu/internal/testutil"
)

func newTestEnv(t *testing.T) *testutil.Env {
	t.Helper()
	env := testutil.New(t)
	services.Provide(env.Container)
	return env
}

func TestScheduleFallsBackToDefault(t *testing.T) {
	env := newTestEnv(t)
	serviceConfig := do.MustInvoke[*services.ServiceConfig](env.Container)
	ctx := context.Background()

	if got := schedule(ctx, serviceConfig, services.CONFIG_CRONJOB_TIME_LEADERBOARD, defaultLeaderboardSchedule); got != defaultLeaderboardSchedule {
		t.Errorf("schedule() = %q, want %q", got, defaultLeaderboardSchedule)
	}

	err := datastore.InsertConfig(ctx, env.DB, &models.Config{Key: services.CONFIG_CRONJOB_TIME_PAYMENT_EXPIRY, Value: "*/5 * * * *"})
	if err != nil {
		t.Fatal(err)
	}
	if got := schedule(ctx, serviceConfig, services.CONFIG_CRONJOB_TIME_PAYMENT_EXPIRY, defaultPaymentExpirySchedule); got != "*/5 * * * *" {
		t.Errorf("schedule() = %q, want the configured value", got)
	}
}

func TestPaymentExpiryJobRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.CreateUser(t, 1, "alice", nil)

	servicePayment := do.MustInvoke[*services.ServicePayment](env.Container)
	payment, err := servicePayment.CreateInvoice(ctx, user.ID, 10, "")
	if err != nil {
		t.Fatal(err)
	}

	job := NewPaymentExpiryJob(do.MustInvoke[*services.ServiceConfig](env.Container), servicePayment)

	job.Run(ctx)
	stored, err := datastore.FindPaymentByInvoiceID(ctx, env.DB, payment.InvoiceID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.PaymentStatusPending {
		t.Fatalf("fresh invoice status = %s, want pending", stored.Status)
	}

	env.Clock.Advance(25 * time.Hour)
	job.Run(ctx)
	stored, err = datastore.FindPaymentByInvoiceID(ctx, env.DB, payment.InvoiceID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.PaymentStatusFailed {
		t.Errorf("stale invoice status = %s, want failed", stored.Status)
	}
}

func TestLeaderboardRolloverJobClearsCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.CreateUser(t, 1, "alice", nil)

	serviceLeaderboard := do.MustInvoke[*services.ServiceLeaderboard](env.Container)
	if _, err := serviceLeaderboard.GetLeaderboard(ctx, user.ID, services.PERIOD_DAILY, 10); err != nil {
		t.Fatal(err)
	}
	key := services.DBKeyLeaderboardByUser(services.PERIOD_DAILY, user.ID, 10)
	if !env.Redis.Exists(key) {
		t.Fatalf("expected %s to be cached", key)
	}

	NewLeaderboardRolloverJob(do.MustInvoke[*services.ServiceConfig](env.Container), serviceLeaderboard).Run(ctx)
	if env.Redis.Exists(key) {
		t.Errorf("%s survived the rollover", key)
	}
}
