package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupReferral struct {
	container *do.Injector
}

func (gr *groupReferral) PendingRewards(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	pending, err := serviceReferral.GetPendingRewards(ctx, userID)
	return abort(c, pending, err)
}

func (gr *groupReferral) ClaimRewards(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	result, err := serviceReferral.ClaimPending(ctx, userID)
	return abort(c, result, err)
}

func (gr *groupReferral) List(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	referrals, err := serviceReferral.ListReferrals(ctx, userID)
	return abort(c, referrals, err)
}
