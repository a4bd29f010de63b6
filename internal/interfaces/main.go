package interfaces

import (
	"context"

	"droppu/internal/models"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// Notifier delivers a chat message to a Telegram user.
type Notifier interface {
	SendMsg(chatID int64, text string) error
}

// InvoiceIssuer creates Telegram Stars invoice links.
type InvoiceIssuer interface {
	CreateStarsInvoice(title, description, payload string, amount int64) (string, error)
}

type InitDataValidator interface {
	ValidateInitData(dataStr string) (*models.UserFromAuth, error)
}
