package handler

import (
	"context"
	"strings"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/models"
	"droppu/internal/services"
)

type ctxKey string

var ctxKeyAuthUserID ctxKey = "AUTH_USER_ID"

var errMissingSession = services.NewError(services.ErrUnauthorized, "missing session")

// Authn reads a bearer token when one is present. It does NOT terminate requests without one;
// protected handlers reject them in ResolveUserID.
func Authn(verifier interface {
	Validate(token string) (int64, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := authorizationValue(c, "Bearer")
			if !ok {
				return next(c)
			}

			userID, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to detailed information
				//nolint:errcheck
				httpx.Abort(c, toErrorx(services.ErrInvalidToken), -1)
				return nil
			}

			ctx := context.WithValue(c.Request().Context(), ctxKeyAuthUserID, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// authorizationValue returns the credentials of an Authorization header using scheme.
func authorizationValue(c echo.Context, scheme string) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	value := strings.TrimSpace(header[len(prefix):])
	return value, value != ""
}

func ResolveUserID(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(ctxKeyAuthUserID).(int64)
	if !ok {
		return 0, errMissingSession
	}
	return userID, nil
}

func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return serviceUser.FindUserByID(ctx, userID)
}
