package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel    `bun:"table:user"`
	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	TgID             int64      `bun:"tg_id,notnull" json:"tg_id"`
	Username         string     `bun:"username" json:"username"`
	FirstName        string     `bun:"first_name" json:"first_name"`
	LastName         string     `bun:"last_name" json:"last_name"`
	PhotoURL         string     `bun:"photo_url" json:"photo_url"`
	Language         string     `bun:"language" json:"language"`
	Region           string     `bun:"region" json:"region"`
	Coins            int64      `bun:"coins,notnull,default:0" json:"coins"`
	Tokens           int64      `bun:"tokens,notnull,default:0" json:"tokens"`
	Tickets          int64      `bun:"tickets,notnull,default:0" json:"tickets"`
	ParentID         *int64     `bun:"parent_id" json:"parent_id"`
	GameHighScore    int64      `bun:"game_high_score,notnull,default:0" json:"game_high_score"`
	WeeklyHighScore  int64      `bun:"weekly_high_score,notnull,default:0" json:"weekly_high_score"`
	DailyHighScore   int64      `bun:"daily_high_score,notnull,default:0" json:"daily_high_score"`
	LastScoreUpdate  *time.Time `bun:"last_score_update" json:"last_score_update"`
	RegistrationDate time.Time  `bun:"registration_date,notnull" json:"registration_date"`
	LastLoginDate    *time.Time `bun:"last_login_date" json:"last_login_date"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull" json:"updated_at"`

	IsNewUser bool `bun:"-" json:"is_new_user"`
}

// UserFromAuth is the Telegram identity extracted from validated init data.
type UserFromAuth struct {
	TgID         int64  `json:"tg_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	IsBot        bool   `json:"is_bot"`
	IsPremium    bool   `json:"is_premium"`
	StartParam   string `json:"start_param"`
}

type UserProfilePatch struct {
	Username *string `json:"username"`
	Region   *string `json:"region"`
	Language *string `json:"language"`
}

type Referral struct {
	ID               int64     `bun:"id" json:"id"`
	Username         string    `bun:"username" json:"username"`
	RegistrationDate time.Time `bun:"registration_date" json:"registration_date"`
	TotalEarned      int64     `bun:"total_earned" json:"total_earned"`
	IndirectCount    int       `bun:"indirect_count" json:"indirect_referrals"`
}
