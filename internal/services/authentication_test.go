package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthenticationRoundTrip(t *testing.T) {
	auth, err := NewAuthentication("secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := auth.CreateToken(42)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	userID, err := auth.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() = %d, want 42", userID)
	}
}

func TestAuthenticationRejects(t *testing.T) {
	auth, _ := NewAuthentication("secret", time.Hour)
	other, _ := NewAuthentication("other-secret", time.Hour)

	expired, _ := NewAuthentication("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.CreateToken(1)

	wrongSecret, _ := other.CreateToken(1)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	textSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte("secret"))

	otherAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"wrong secret", wrongSecret},
		{"missing subject", noSubject},
		{"non numeric subject", textSubject},
		{"missing expiry", noExpiry},
		{"unexpected algorithm", otherAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Validate(tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Validate() error = %v, want unauthorized", err)
			}
		})
	}
}

func TestNewAuthenticationRequiresSecret(t *testing.T) {
	if _, err := NewAuthentication("", time.Hour); err == nil {
		t.Error("NewAuthentication(\"\") error = nil, want error")
	}
}
