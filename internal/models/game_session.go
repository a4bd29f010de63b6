package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

type GameSession struct {
	bun.BaseModel `bun:"table:game_session"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64      `bun:"user_id,notnull" json:"user_id"`
	GameType      string     `bun:"game_type,notnull" json:"game_type"`
	CoinsEarned   int64      `bun:"coins_earned,notnull,default:0" json:"coins_earned"`
	Score         int64      `bun:"score,notnull,default:0" json:"score"`
	StartTime     time.Time  `bun:"start_time,notnull" json:"start_time"`
	EndTime       *time.Time `bun:"end_time" json:"end_time"`
	Status        string     `bun:"status,notnull" json:"status"`
}

type HighScores struct {
	CurrentScore int64 `json:"current_score"`
	AllTimeHigh  int64 `json:"all_time_high"`
	WeeklyHigh   int64 `json:"weekly_high"`
	DailyHigh    int64 `json:"daily_high"`
}

type GameResult struct {
	SessionID    int64      `json:"session_id"`
	CoinsEarned  int64      `json:"coins_earned"`
	NewHighScore bool       `json:"new_high_score"`
	Scores       HighScores `json:"scores"`
}
