package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusFailed    = "failed"

	CurrencyStars = "XTR"
)

type Payment struct {
	bun.BaseModel    `bun:"table:payment"`
	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID           int64      `bun:"user_id,notnull" json:"user_id"`
	InvoiceID        string     `bun:"invoice_id,notnull" json:"invoice_id"`
	InvoiceLink      string     `bun:"invoice_link" json:"invoice_link"`
	Amount           int64      `bun:"amount,notnull" json:"amount"`
	Currency         string     `bun:"currency,notnull" json:"currency"`
	Description      string     `bun:"description" json:"description"`
	Status           string     `bun:"status,notnull" json:"status"`
	TelegramChargeID string     `bun:"telegram_charge_id" json:"-"`
	CreatedAt        time.Time  `bun:"created_at,notnull" json:"created_at"`
	CompletedAt      *time.Time `bun:"completed_at" json:"completed_at"`
}
