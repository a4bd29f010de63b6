package handler

import (
	"errors"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"

	"droppu/internal/pkg/limiter"
	"droppu/internal/services"
)

func toErrorx(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound):
		return errorx.Wrap(err, errorx.NotExist)
	case errors.Is(err, services.ErrInvalidState):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, services.ErrUnauthorized):
		return errorx.Wrap(err, errorx.Authn)
	case errors.Is(err, services.ErrValidation):
		return errorx.Wrap(err, errorx.Validation)
	case errors.Is(err, limiter.ErrRateLimited):
		return errorx.Wrap(err, errorx.RateLimiting)
	}
	return errorx.Wrap(err, errorx.Service)
}

func abort(c echo.Context, data any, err error) error {
	return httpx.RestAbort(c, data, toErrorx(err))
}

func invalidInput(msg string) error {
	return services.NewError(services.ErrValidation, msg)
}
