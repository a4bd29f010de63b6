package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = NewError(ErrUnauthorized, "invalid access token")

type Authentication struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthentication(secret string, ttl time.Duration) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authentication{[]byte(secret), ttl, time.Now}, nil
}

// CreateToken signs an HS256 token whose subject is the account id.
func (authentication *Authentication) CreateToken(userID int64) (string, error) {
	now := authentication.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(authentication.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(authentication.secret)
}

// Validate returns the account id carried by a valid, unexpired token.
func (authentication *Authentication) Validate(token string) (int64, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return authentication.secret, nil
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(authentication.now),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
