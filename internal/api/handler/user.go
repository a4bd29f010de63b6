package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/models"
	"droppu/internal/services"
)

type groupUser struct {
	container *do.Injector
}

type initUserRequest struct {
	InitData string `json:"init_data"`
	RefCode  string `json:"ref_code"`
}

type initUserResponse struct {
	Token        string       `json:"token"`
	User         *models.User `json:"user"`
	ReferralCode string       `json:"referral_code"`
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInput("invalid " + name)
	}
	return id, nil
}

func queryInt(c echo.Context, name string, defaultValue int) (int, error) {
	value := c.QueryParam(name)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalidInput("invalid " + name)
	}
	return n, nil
}

// Init logs in with Telegram init data, taken from "Authorization: tma <data>" or the body.
func (gr *groupUser) Init(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	var req initUserRequest
	if err := c.Bind(&req); err != nil {
		return abort(c, nil, invalidInput("invalid request body"))
	}
	if initData, ok := authorizationValue(c, "tma"); ok {
		req.InitData = initData
	}
	if req.RefCode == "" {
		req.RefCode = c.QueryParam("refCode")
	}
	if req.InitData == "" {
		return abort(c, nil, services.NewError(services.ErrUnauthorized, "missing init data"))
	}

	ctx := c.Request().Context()
	user, err := serviceUser.InitUser(ctx, req.InitData, req.RefCode)
	if err != nil {
		return abort(c, nil, err)
	}

	token, err := serviceUser.IssueToken(user)
	if err != nil {
		return abort(c, nil, err)
	}

	return abort(c, initUserResponse{token, user, services.ReferralCode(user.ID)}, nil)
}

func (gr *groupUser) Me(c echo.Context) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	return abort(c, user, nil)
}

func (gr *groupUser) Show(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	userID, err := paramID(c, "id")
	if err != nil {
		return abort(c, nil, err)
	}
	if userID != actorID {
		return abort(c, nil, services.ErrNotOwner)
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	return abort(c, user, nil)
}

func (gr *groupUser) Update(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	actorID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	userID, err := paramID(c, "id")
	if err != nil {
		return abort(c, nil, err)
	}

	var patch models.UserProfilePatch
	if err := c.Bind(&patch); err != nil {
		return abort(c, nil, invalidInput("invalid request body"))
	}

	user, err := serviceUser.UpdateProfile(ctx, actorID, userID, &patch)
	return abort(c, user, err)
}

func (gr *groupUser) Earnings(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return abort(c, nil, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return abort(c, nil, err)
	}

	earnings, err := serviceUser.GetEarnings(ctx, userID, limit, offset)
	return abort(c, earnings, err)
}
