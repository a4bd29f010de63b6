package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupLeaderboard struct {
	container *do.Injector
}

func (gr *groupLeaderboard) Get(c echo.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	limit, err := queryInt(c, "limit", services.LEADERBOARD_DEFAULT_LIMIT)
	if err != nil {
		return abort(c, nil, err)
	}

	leaderboard, err := serviceLeaderboard.GetLeaderboard(ctx, userID, c.Param("period"), limit)
	return abort(c, leaderboard, err)
}
