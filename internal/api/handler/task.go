package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupTask struct {
	container *do.Injector
}

func (gr *groupTask) List(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	if _, err := ResolveUserID(ctx); err != nil {
		return abort(c, nil, err)
	}

	tasks, err := serviceTask.GetTasks(ctx)
	return abort(c, tasks, err)
}

func (gr *groupTask) Incomplete(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	tasks, err := serviceTask.GetIncompleteTasks(ctx, userID)
	return abort(c, tasks, err)
}

func (gr *groupTask) Complete(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	taskID, err := paramID(c, "id")
	if err != nil {
		return abort(c, nil, err)
	}

	result, err := serviceTask.Complete(ctx, userID, taskID)
	return abort(c, result, err)
}
