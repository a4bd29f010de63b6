package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"droppu/internal/models"
)

func TestParseReferralCode(t *testing.T) {
	tests := []struct {
		code   string
		want   int64
		wantOK bool
	}{
		{"ref_42", 42, true},
		{"42", 42, true},
		{" ref_7 ", 7, true},
		{"ref_", 0, false},
		{"ref_-1", 0, false},
		{"friend", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseReferralCode(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseReferralCode(%q) = (%d, %v), want (%d, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}

	if code := ReferralCode(42); code != "ref_42" {
		t.Errorf("ReferralCode(42) = %q", code)
	}
}

func TestInitUserCreatesAndLinksReferrer(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)
	ctx := context.Background()

	referrer := env.CreateUser(t, 100, "referrer", nil)
	env.Validator.Register("alice-init", &models.UserFromAuth{TgID: 200, Username: "Alice", FirstName: "Alice"})

	user, err := service.InitUser(ctx, "alice-init", ReferralCode(referrer.ID))
	if err != nil {
		t.Fatalf("InitUser() error = %v", err)
	}
	if !user.IsNewUser || user.ID == 0 || user.Username != "alice" {
		t.Fatalf("InitUser() = %+v, want a new user named alice", user)
	}
	if user.ParentID == nil || *user.ParentID != referrer.ID {
		t.Fatalf("parent = %v, want %d", user.ParentID, referrer.ID)
	}

	rewards := pendingOf(t, env, referrer.ID)
	if len(rewards) != 1 || rewards[0].Tickets != 1 || rewards[0].RefereeID != user.ID {
		t.Errorf("referrer rewards = %+v, want one signup ticket", rewards)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(env.Notifier.Messages()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	messages := env.Notifier.Messages()
	if len(messages) != 1 || messages[0].ChatID != referrer.TgID || !strings.Contains(messages[0].Text, "@alice") {
		t.Errorf("notifications = %+v, want one to the referrer mentioning @alice", messages)
	}

	env.Clock.Advance(time.Hour)
	again, err := service.InitUser(ctx, "alice-init", "")
	if err != nil {
		t.Fatalf("second InitUser() error = %v", err)
	}
	if again.IsNewUser || again.ID != user.ID {
		t.Errorf("second InitUser() = %+v, want the existing user", again)
	}
	if again.LastLoginDate == nil || !again.LastLoginDate.Equal(env.Clock.Now()) {
		t.Errorf("last login = %v, want %v", again.LastLoginDate, env.Clock.Now())
	}
	if rewards := pendingOf(t, env, referrer.ID); len(rewards) != 1 {
		t.Errorf("referrer rewards after login = %d, want 1", len(rewards))
	}
}

func TestInitUserUsesStartParam(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)

	referrer := env.CreateUser(t, 100, "referrer", nil)
	env.Validator.Register("bob-init", &models.UserFromAuth{TgID: 300, Username: "bob", StartParam: ReferralCode(referrer.ID)})

	user, err := service.InitUser(context.Background(), "bob-init", "")
	if err != nil {
		t.Fatalf("InitUser() error = %v", err)
	}
	if user.ParentID == nil || *user.ParentID != referrer.ID {
		t.Errorf("parent = %v, want %d", user.ParentID, referrer.ID)
	}
}

func TestInitUserIgnoresUnknownReferrer(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)

	env.Validator.Register("carol-init", &models.UserFromAuth{TgID: 400, Username: "carol"})

	user, err := service.InitUser(context.Background(), "carol-init", "ref_999")
	if err != nil {
		t.Fatalf("InitUser() error = %v", err)
	}
	if user.ParentID != nil {
		t.Errorf("parent = %d, want none", *user.ParentID)
	}
}

func TestInitUserRejectsInvalidInitData(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)

	if _, err := service.InitUser(context.Background(), "forged", ""); err == nil {
		t.Error("InitUser(forged) error = nil, want error")
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)
	ctx := context.Background()

	alice := env.CreateUser(t, 1, "alice", nil)
	bob := env.CreateUser(t, 2, "bob", nil)

	region := "VN"
	username := "Alice2"
	_, err := service.UpdateProfile(ctx, bob.ID, alice.ID, &models.UserProfilePatch{Region: &region})
	assertKind(t, err, ErrUnauthorized)

	updated, err := service.UpdateProfile(ctx, alice.ID, alice.ID, &models.UserProfilePatch{Region: &region, Username: &username})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Region != "VN" || updated.Username != "alice2" {
		t.Errorf("UpdateProfile() = %+v, want region VN and username alice2", updated)
	}

	got, err := service.FindUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindUserByID() error = %v", err)
	}
	if got.Region != "VN" {
		t.Errorf("FindUserByID().Region = %q, want VN", got.Region)
	}

	_, err = service.UpdateProfile(ctx, 999, 999, &models.UserProfilePatch{})
	assertKind(t, err, ErrNotFound)
}

func TestFindUserByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)

	_, err := service.FindUserByID(context.Background(), 12345)
	assertKind(t, err, ErrNotFound)
}

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)
	service := invoke[*ServiceUser](t, env)
	auth := invoke[*Authentication](t, env)

	user := env.CreateUser(t, 1, "alice", nil)
	token, err := service.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	userID, err := auth.Validate(token)
	if err != nil || userID != user.ID {
		t.Errorf("Validate() = (%d, %v), want (%d, nil)", userID, err, user.ID)
	}
}
