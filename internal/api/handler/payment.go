package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"droppu/internal/services"
)

type groupPayment struct {
	container *do.Injector
}

type createInvoiceRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type createInvoiceResponse struct {
	InvoiceID   string `json:"invoice_id"`
	InvoiceLink string `json:"invoice_link"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

func invoiceParam(c echo.Context) (string, error) {
	invoiceID := strings.TrimSpace(c.Param("id"))
	if invoiceID == "" {
		return "", invalidInput("invalid invoice id")
	}
	return invoiceID, nil
}

func (gr *groupPayment) CreateInvoice(c echo.Context) error {
	servicePayment, err := do.Invoke[*services.ServicePayment](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return abort(c, nil, invalidInput("invalid request body"))
	}

	payment, err := servicePayment.CreateInvoice(ctx, userID, req.Amount, req.Description)
	if err != nil {
		return abort(c, nil, err)
	}

	return abort(c, createInvoiceResponse{payment.InvoiceID, payment.InvoiceLink, payment.Amount, payment.Currency}, nil)
}

func (gr *groupPayment) Paid(c echo.Context) error {
	servicePayment, err := do.Invoke[*services.ServicePayment](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	invoiceID, err := invoiceParam(c)
	if err != nil {
		return abort(c, nil, err)
	}

	payment, err := servicePayment.MarkPaid(ctx, userID, invoiceID)
	return abort(c, payment, err)
}

// Cancelled and Failed are called back by the client without a session.
func (gr *groupPayment) Cancelled(c echo.Context) error {
	servicePayment, err := do.Invoke[*services.ServicePayment](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	invoiceID, err := invoiceParam(c)
	if err != nil {
		return abort(c, nil, err)
	}

	payment, err := servicePayment.MarkCancelled(c.Request().Context(), invoiceID)
	return abort(c, payment, err)
}

func (gr *groupPayment) Failed(c echo.Context) error {
	servicePayment, err := do.Invoke[*services.ServicePayment](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	invoiceID, err := invoiceParam(c)
	if err != nil {
		return abort(c, nil, err)
	}

	payment, err := servicePayment.MarkFailed(c.Request().Context(), invoiceID)
	return abort(c, payment, err)
}

func (gr *groupPayment) Status(c echo.Context) error {
	servicePayment, err := do.Invoke[*services.ServicePayment](gr.container)
	if err != nil {
		return abort(c, nil, err)
	}

	ctx := c.Request().Context()
	userID, err := ResolveUserID(ctx)
	if err != nil {
		return abort(c, nil, err)
	}

	invoiceID, err := invoiceParam(c)
	if err != nil {
		return abort(c, nil, err)
	}

	payment, err := servicePayment.GetStatus(ctx, userID, invoiceID)
	return abort(c, payment, err)
}
