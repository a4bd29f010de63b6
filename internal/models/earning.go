package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CurrencyCoins   = "coins"
	CurrencyTokens  = "tokens"
	CurrencyTickets = "tickets"

	SourceTaskCompletion = "task_completion"
	SourceReferralReward = "referral_reward"
	SourceGameReward     = "game_reward"
)

// Earning is an append-only ledger row. Balances live on User; earnings are history only.
type Earning struct {
	bun.BaseModel `bun:"table:earning"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id,notnull" json:"user_id"`
	Amount        int64     `bun:"amount,notnull" json:"amount"`
	Currency      string    `bun:"currency,notnull" json:"currency"`
	SourceType    string    `bun:"source_type,notnull" json:"source_type"`
	SourceID      *int64    `bun:"source_id" json:"source_id"`
	Notes         string    `bun:"notes" json:"notes"`
	Date          time.Time `bun:"date,notnull" json:"date"`
}
