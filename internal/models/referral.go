package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PendingReferralReward struct {
	bun.BaseModel `bun:"table:pending_referral_reward"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	ReferrerID    int64      `bun:"referrer_id,notnull" json:"referrer_id"`
	RefereeID     int64      `bun:"referee_id,notnull" json:"referee_id"`
	Coins         int64      `bun:"coins,notnull,default:0" json:"coins"`
	Tickets       int64      `bun:"tickets,notnull,default:0" json:"tickets"`
	IsClaimed     bool       `bun:"is_claimed,notnull,default:false" json:"is_claimed"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"created_at"`
	ClaimedAt     *time.Time `bun:"claimed_at" json:"claimed_at"`
}

type PendingRewardDetail struct {
	RefereeID        int64     `bun:"referee_id" json:"user_id"`
	Username         string    `bun:"username" json:"username"`
	RegistrationDate time.Time `bun:"registration_date" json:"registration_date"`
	Coins            int64     `bun:"coins" json:"coins"`
	Tickets          int64     `bun:"tickets" json:"tickets"`
}

type PendingRewards struct {
	TotalCoins   int64                  `json:"total_coins"`
	TotalTickets int64                  `json:"total_tickets"`
	RewardsFrom  []*PendingRewardDetail `json:"rewards_from"`
}

type ClaimResult struct {
	ClaimedCoins   int64 `json:"claimed_coins"`
	ClaimedTickets int64 `json:"claimed_tickets"`
	Coins          int64 `json:"coins"`
	Tickets        int64 `json:"tickets"`
}
