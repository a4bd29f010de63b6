package models

import (
	"time"

	"github.com/uptrace/bun"
)

const TaskStatusCompleted = "completed"

type Task struct {
	bun.BaseModel  `bun:"table:task"`
	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	Name           string `bun:"name,notnull" json:"name"`
	Description    string `bun:"description" json:"description"`
	RewardCoins    int64  `bun:"reward_coins,notnull,default:0" json:"reward_coins"`
	RewardTokens   int64  `bun:"reward_tokens,notnull,default:0" json:"reward_tokens"`
	RewardTickets  int64  `bun:"reward_tickets,notnull,default:0" json:"reward_tickets"`
	Link           string `bun:"link" json:"link"`
	AdditionalInfo string `bun:"additional_info" json:"additional_info"`
	Type           string `bun:"type" json:"type"`
}

// UserTask is unique per (user_id, task_id). RewardedAt is set exactly once, by the call that grants.
type UserTask struct {
	bun.BaseModel     `bun:"table:user_task"`
	ID                int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID            int64      `bun:"user_id,notnull" json:"user_id"`
	TaskID            int64      `bun:"task_id,notnull" json:"task_id"`
	Status            string     `bun:"status,notnull" json:"status"`
	LastCompletedDate time.Time  `bun:"last_completed_date,notnull" json:"last_completed_date"`
	RewardedAt        *time.Time `bun:"rewarded_at" json:"rewarded_at"`
}

const (
	CompletionGranted        = "granted"
	CompletionAlreadyGranted = "already_granted"
)

type CompletionResult struct {
	Outcome  string    `json:"outcome"`
	UserTask *UserTask `json:"user_task"`
	Reward   *Task     `json:"reward,omitempty"`
}

func (r *CompletionResult) Granted() bool {
	return r.Outcome == CompletionGranted
}
