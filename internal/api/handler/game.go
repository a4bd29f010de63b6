package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupGame struct {
	container *do.Injector
}

type startGameRequest struct {
	GameType string `json:"game_type"`
}

type endGameRequest struct {
	SessionID   int64 `json:"session_id"`
	CoinsEarned int64 `json:"coins_earned"`
	Score       int64 `json:"score"`
}

func (gr *groupGame) Start(c echo.Context) error {
	serviceGame, err := do.Invoke[*services.ServiceGame](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	var req startGameRequest
	if err := c.Bind(&req); err != nil {
		return abort(c, nil, invalidInput("invalid request body"))
	}

	session, err := serviceGame.StartSession(ctx, userID, req.GameType)
	if err != nil {
		return abort(c, nil, err)
	}

	return abort(c, map[string]any{
		"session_id": session.ID,
		"start_time": session.StartTime,
	}, nil)
}

func (gr *groupGame) End(c echo.Context) error {
	serviceGame, err := do.Invoke[*services.ServiceGame](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	var req endGameRequest
	if err := c.Bind(&req); err != nil {
		return abort(c, nil, invalidInput("invalid request body"))
	}
	if req.SessionID <= 0 {
		return abort(c, nil, invalidInput("session_id is required"))
	}

	result, err := serviceGame.EndSession(ctx, userID, req.SessionID, req.CoinsEarned, req.Score)
	return abort(c, result, err)
}

func (gr *groupGame) Session(c echo.Context) error {
	serviceGame, err := do.Invoke[*services.ServiceGame](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	sessionID, err := paramID(c, "id")
	if err != nil {
		return abort(c, nil, err)
	}

	session, err := serviceGame.GetSession(ctx, userID, sessionID)
	return abort(c, session, err)
}
