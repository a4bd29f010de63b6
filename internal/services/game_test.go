package services

import (
	"context"
	"testing"
	"time"

	"droppu/internal/models"
)

func TestGameSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	user := env.CreateUser(t, 1, "alice", nil)

	session, err := service.StartSession(ctx, user.ID, "runner")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.ID == 0 || session.Status != models.SessionStatusActive {
		t.Fatalf("StartSession() = %+v, want an active session", session)
	}

	result, err := service.EndSession(ctx, user.ID, session.ID, 40, 1200)
	if err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	want := models.HighScores{CurrentScore: 1200, AllTimeHigh: 1200, WeeklyHigh: 1200, DailyHigh: 1200}
	if !result.NewHighScore || result.CoinsEarned != 40 || result.Scores != want {
		t.Fatalf("EndSession() = %+v, want new high score of 1200 with 40 coins", result)
	}

	got := reloadUser(t, env, user.ID)
	if got.Coins != 40 || got.GameHighScore != 1200 || got.LastScoreUpdate == nil {
		t.Errorf("user = %+v, want 40 coins and high score 1200", got)
	}

	earnings := earningsOf(t, env, user.ID)
	if len(earnings) != 1 || earnings[0].SourceType != models.SourceGameReward || earnings[0].Amount != 40 {
		t.Errorf("ledger = %+v, want one game reward of 40", earnings)
	}

	stored, err := service.GetSession(ctx, user.ID, session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if stored.Status != models.SessionStatusCompleted || stored.Score != 1200 || stored.EndTime == nil {
		t.Errorf("stored session = %+v, want completed with score 1200", stored)
	}
}

func TestEndSessionTwiceLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	user := env.CreateUser(t, 1, "alice", nil)
	session, err := service.StartSession(ctx, user.ID, "runner")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.EndSession(ctx, user.ID, session.ID, 10, 100); err != nil {
		t.Fatal(err)
	}

	_, err = service.EndSession(ctx, user.ID, session.ID, 500, 9000)
	assertKind(t, err, ErrInvalidState)

	got := reloadUser(t, env, user.ID)
	if got.Coins != 10 || got.GameHighScore != 100 {
		t.Errorf("user = %d coins, high %d; want 10 and 100", got.Coins, got.GameHighScore)
	}
	if earnings := earningsOf(t, env, user.ID); len(earnings) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(earnings))
	}
}

func TestEndSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	owner := env.CreateUser(t, 1, "owner", nil)
	other := env.CreateUser(t, 2, "other", nil)
	session, err := service.StartSession(ctx, owner.ID, "runner")
	if err != nil {
		t.Fatal(err)
	}

	_, err = service.EndSession(ctx, other.ID, session.ID, 10, 10)
	assertKind(t, err, ErrNotFound)

	_, err = service.EndSession(ctx, owner.ID, session.ID+100, 10, 10)
	assertKind(t, err, ErrNotFound)

	_, err = service.GetSession(ctx, other.ID, session.ID)
	assertKind(t, err, ErrNotFound)
}

func TestGameSessionValidation(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	user := env.CreateUser(t, 1, "alice", nil)

	_, err := service.StartSession(ctx, user.ID, "  ")
	assertKind(t, err, ErrValidation)

	session, err := service.StartSession(ctx, user.ID, "runner")
	if err != nil {
		t.Fatal(err)
	}
	_, err = service.EndSession(ctx, user.ID, session.ID, -1, 10)
	assertKind(t, err, ErrValidation)
}

func TestConcurrentActiveSessionsAllowed(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	user := env.CreateUser(t, 1, "alice", nil)
	first, err := service.StartSession(ctx, user.ID, "runner")
	if err != nil {
		t.Fatal(err)
	}
	second, err := service.StartSession(ctx, user.ID, "puzzle")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.EndSession(ctx, user.ID, second.ID, 5, 50); err != nil {
		t.Fatalf("EndSession(second) error = %v", err)
	}
	if _, err := service.EndSession(ctx, user.ID, first.ID, 5, 20); err != nil {
		t.Fatalf("EndSession(first) error = %v", err)
	}

	if got := reloadUser(t, env, user.ID); got.Coins != 10 {
		t.Errorf("coins = %d, want 10", got.Coins)
	}
}

func TestEndSessionDailyRollover(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceGame](t, env)
	ctx := context.Background()

	user := env.CreateUser(t, 1, "alice", nil)
	play := func(score int64) *models.GameResult {
		t.Helper()
		session, err := service.StartSession(ctx, user.ID, "runner")
		if err != nil {
			t.Fatal(err)
		}
		result, err := service.EndSession(ctx, user.ID, session.ID, 0, score)
		if err != nil {
			t.Fatal(err)
		}
		return result
	}

	play(500)
	env.Clock.Advance(24 * time.Hour)
	result := play(10)

	want := models.HighScores{CurrentScore: 10, AllTimeHigh: 500, WeeklyHigh: 500, DailyHigh: 10}
	if result.Scores != want || result.NewHighScore {
		t.Errorf("scores = %+v (new high %v), want %+v", result.Scores, result.NewHighScore, want)
	}
}

func TestStartSessionRequiresAccount(t *testing.T) {
	env := newTestEnv(t)
	game := invoke[*ServiceGame](t, env)
	inventory := invoke[*ServiceInventory](t, env)
	payment := invoke[*ServicePayment](t, env)
	ctx := context.Background()

	const deleted = 404

	_, err := game.StartSession(ctx, deleted, "runner")
	assertKind(t, err, ErrNotFound)

	_, err = inventory.AddItem(ctx, deleted, 1, 1)
	assertKind(t, err, ErrNotFound)

	_, err = payment.CreateInvoice(ctx, deleted, 10, "")
	assertKind(t, err, ErrNotFound)

	count, err := env.DB.NewSelect().Model((*models.GameSession)(nil)).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("sessions = %d, want 0", count)
	}
}
