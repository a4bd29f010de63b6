package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupInventory struct {
	container *do.Injector
}

type inventoryRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

func (gr *groupInventory) Items(c echo.Context) error {
	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	if _, err := ResolveUserID(ctx); err != nil {
		return abort(c, nil, err)
	}

	items, err := serviceInventory.GetItems(ctx)
	return abort(c, items, err)
}

func (gr *groupInventory) Mine(c echo.Context) error {
	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	inventory, err := serviceInventory.GetUserInventory(ctx, userID)
	return abort(c, inventory, err)
}

func (gr *groupInventory) bind(c echo.Context) (*inventoryRequest, error) {
	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return nil, invalidInput("invalid request body")
	}
	if req.ItemID <= 0 {
		return nil, invalidInput("item_id is required")
	}
	return &req, nil
}

func (gr *groupInventory) Add(c echo.Context) error {
	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	req, err := gr.bind(c)
	if err != nil {
		return abort(c, nil, err)
	}

	entry, err := serviceInventory.AddItem(ctx, userID, req.ItemID, req.Quantity)
	return abort(c, entry, err)
}

func (gr *groupInventory) Remove(c echo.Context) error {
	serviceInventory, err := do.Invoke[*services.ServiceInventory](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	req, err := gr.bind(c)
	if err != nil {
		return abort(c, nil, err)
	}

	entry, err := serviceInventory.RemoveItem(ctx, userID, req.ItemID, req.Quantity)
	return abort(c, entry, err)
}
