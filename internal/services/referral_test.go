package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"droppu/internal/models"
)

func TestCommissionSplit(t *testing.T) {
	tests := []struct {
		earned       int64
		wantDirect   int64
		wantIndirect int64
	}{
		{1000, 100, 25},
		{100, 10, 2},
		{39, 3, 0},
		{9, 0, 0},
		{0, 0, 0},
		{-50, 0, 0},
	}

	for _, tt := range tests {
		direct, indirect := CommissionSplit(tt.earned)
		if direct != tt.wantDirect || indirect != tt.wantIndirect {
			t.Errorf("CommissionSplit(%d) = (%d, %d), want (%d, %d)", tt.earned, direct, indirect, tt.wantDirect, tt.wantIndirect)
		}
	}
}

func TestAccrueTwoTiers(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)
	ctx := context.Background()

	grandparent := env.CreateUser(t, 1, "grandparent", nil)
	parent := env.CreateUser(t, 2, "parent", &grandparent.ID)
	child := env.CreateUser(t, 3, "child", &parent.ID)

	if err := service.Accrue(ctx, nil, parent.ID, child.ID, 1000, false); err != nil {
		t.Fatalf("Accrue() error = %v", err)
	}

	direct := pendingOf(t, env, parent.ID)
	if len(direct) != 1 || direct[0].Coins != 100 || direct[0].RefereeID != child.ID {
		t.Fatalf("direct rewards = %+v, want one of 100 coins from child", direct)
	}

	indirect := pendingOf(t, env, grandparent.ID)
	if len(indirect) != 1 || indirect[0].Coins != 25 || indirect[0].RefereeID != child.ID {
		t.Fatalf("indirect rewards = %+v, want one of 25 coins from child", indirect)
	}
}

func TestAccrueStopsAtTwoTiers(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)

	root := env.CreateUser(t, 1, "root", nil)
	grandparent := env.CreateUser(t, 2, "grandparent", &root.ID)
	parent := env.CreateUser(t, 3, "parent", &grandparent.ID)
	child := env.CreateUser(t, 4, "child", &parent.ID)

	if err := service.Accrue(context.Background(), nil, parent.ID, child.ID, 1000, false); err != nil {
		t.Fatalf("Accrue() error = %v", err)
	}

	if got := pendingOf(t, env, root.ID); len(got) != 0 {
		t.Errorf("third tier rewards = %+v, want none", got)
	}
}

func TestAccrueWithoutGrandparent(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)

	parent := env.CreateUser(t, 1, "parent", nil)
	child := env.CreateUser(t, 2, "child", &parent.ID)

	if err := service.Accrue(context.Background(), nil, parent.ID, child.ID, 100, false); err != nil {
		t.Fatalf("Accrue() error = %v", err)
	}

	rewards := pendingOf(t, env, parent.ID)
	if len(rewards) != 1 || rewards[0].Coins != 10 {
		t.Fatalf("rewards = %+v, want one of 10 coins", rewards)
	}
}

func TestAccrueSignupBonus(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)

	parent := env.CreateUser(t, 1, "parent", nil)
	child := env.CreateUser(t, 2, "child", &parent.ID)

	if err := service.Accrue(context.Background(), nil, parent.ID, child.ID, 0, true); err != nil {
		t.Fatalf("Accrue() error = %v", err)
	}

	rewards := pendingOf(t, env, parent.ID)
	if len(rewards) != 1 || rewards[0].Tickets != 1 || rewards[0].Coins != 0 {
		t.Fatalf("rewards = %+v, want one ticket", rewards)
	}
}

func TestClaimPendingWithoutRewards(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)

	user := env.CreateUser(t, 1, "alice", nil)

	_, err := service.ClaimPending(context.Background(), user.ID)
	assertKind(t, err, ErrNotFound)
}

func TestClaimPending(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)
	ctx := context.Background()

	parent := env.CreateUser(t, 1, "parent", nil)
	first := env.CreateUser(t, 2, "first", &parent.ID)
	second := env.CreateUser(t, 3, "second", &parent.ID)

	for _, accrual := range []struct {
		referee int64
		earned  int64
		isNew   bool
	}{
		{first.ID, 0, true},
		{first.ID, 200, false},
		{second.ID, 50, false},
	} {
		if err := service.Accrue(ctx, nil, parent.ID, accrual.referee, accrual.earned, accrual.isNew); err != nil {
			t.Fatalf("Accrue() error = %v", err)
		}
	}

	pending, err := service.GetPendingRewards(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetPendingRewards() error = %v", err)
	}
	if pending.TotalCoins != 25 || pending.TotalTickets != 1 || len(pending.RewardsFrom) != 2 {
		t.Fatalf("pending = %+v, want 25 coins, 1 ticket from 2 referees", pending)
	}

	result, err := service.ClaimPending(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ClaimPending() error = %v", err)
	}
	want := models.ClaimResult{ClaimedCoins: 25, ClaimedTickets: 1, Coins: 25, Tickets: 1}
	if *result != want {
		t.Errorf("ClaimPending() = %+v, want %+v", *result, want)
	}

	earnings := earningsOf(t, env, parent.ID)
	if len(earnings) != 2 {
		t.Fatalf("ledger entries = %d, want 2 (one per coin reward)", len(earnings))
	}
	for _, earning := range earnings {
		if earning.SourceType != models.SourceReferralReward || earning.SourceID == nil {
			t.Errorf("ledger entry = %+v, want referral reward with a source", earning)
		}
	}

	user := reloadUser(t, env, parent.ID)
	if user.Coins != 25 || user.Tickets != 1 {
		t.Errorf("balances = %d coins %d tickets, want 25 and 1", user.Coins, user.Tickets)
	}

	_, err = service.ClaimPending(ctx, parent.ID)
	assertKind(t, err, ErrNotFound)

	if user := reloadUser(t, env, parent.ID); user.Coins != 25 {
		t.Errorf("coins after second claim = %d, want 25", user.Coins)
	}
}

func TestListReferrals(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)
	ctx := context.Background()

	parent := env.CreateUser(t, 1, "parent", nil)
	child := env.CreateUser(t, 2, "child", &parent.ID)
	env.CreateUser(t, 3, "grandchild", &child.ID)

	if err := service.Accrue(ctx, nil, parent.ID, child.ID, 300, false); err != nil {
		t.Fatal(err)
	}
	if _, err := service.ClaimPending(ctx, parent.ID); err != nil {
		t.Fatal(err)
	}

	referrals, err := service.ListReferrals(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListReferrals() error = %v", err)
	}
	if len(referrals) != 1 {
		t.Fatalf("ListReferrals() = %d referrals, want 1", len(referrals))
	}
	if got := referrals[0]; got.ID != child.ID || got.TotalEarned != 30 || got.IndirectCount != 1 {
		t.Errorf("referral = %+v, want child with 30 earned and 1 indirect", got)
	}
}

func TestClaimPendingConcurrentClaimsOnce(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceReferral](t, env)
	ctx := context.Background()

	parent := env.CreateUser(t, 1, "parent", nil)
	child := env.CreateUser(t, 2, "child", &parent.ID)
	if err := service.Accrue(ctx, nil, parent.ID, child.ID, 100, false); err != nil {
		t.Fatal(err)
	}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int64
		wins    int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.ClaimPending(ctx, parent.ID)
			if err != nil {
				if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidState) {
					t.Errorf("ClaimPending() error = %v, want NotFound or InvalidState", err)
				}
				return
			}
			mu.Lock()
			wins++
			claimed += result.ClaimedCoins
			mu.Unlock()
		}()
	}
	wg.Wait()

	if wins != 1 || claimed != 10 {
		t.Errorf("claims = %d totalling %d coins, want 1 claim of 10", wins, claimed)
	}
	if got := reloadUser(t, env, parent.ID); got.Coins != 10 {
		t.Errorf("parent coins = %d, want 10", got.Coins)
	}
	if earnings := earningsOf(t, env, parent.ID); len(earnings) != 1 {
		t.Errorf("parent ledger entries = %d, want 1", len(earnings))
	}
}
