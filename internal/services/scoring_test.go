package services

import (
	"testing"
	"time"

	"droppu/internal/models"
)

func TestApplyHighScores(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name    string
		user    models.User
		score   int64
		want    models.HighScores
		wantNew bool
	}{
		{
			name:    "first score sets everything",
			user:    models.User{},
			score:   120,
			want:    models.HighScores{CurrentScore: 120, AllTimeHigh: 120, WeeklyHigh: 120, DailyHigh: 120},
			wantNew: true,
		},
		{
			name:    "daily resets on a new date regardless of magnitude",
			user:    models.User{GameHighScore: 900, WeeklyHighScore: 500, DailyHighScore: 500, LastScoreUpdate: at(-13 * time.Hour)},
			score:   10,
			want:    models.HighScores{CurrentScore: 10, AllTimeHigh: 900, WeeklyHigh: 500, DailyHigh: 10},
			wantNew: false,
		},
		{
			name:    "weekly keeps a greater score inside the window",
			user:    models.User{GameHighScore: 300, WeeklyHighScore: 300, DailyHighScore: 0, LastScoreUpdate: at(-3 * 24 * time.Hour)},
			score:   200,
			want:    models.HighScores{CurrentScore: 200, AllTimeHigh: 300, WeeklyHigh: 300, DailyHigh: 200},
			wantNew: false,
		},
		{
			name:    "weekly resets after seven days",
			user:    models.User{GameHighScore: 300, WeeklyHighScore: 300, DailyHighScore: 300, LastScoreUpdate: at(-7 * 24 * time.Hour)},
			score:   50,
			want:    models.HighScores{CurrentScore: 50, AllTimeHigh: 300, WeeklyHigh: 50, DailyHigh: 50},
			wantNew: false,
		},
		{
			name:    "same day keeps the greater daily",
			user:    models.User{GameHighScore: 80, WeeklyHighScore: 80, DailyHighScore: 80, LastScoreUpdate: at(-time.Hour)},
			score:   40,
			want:    models.HighScores{CurrentScore: 40, AllTimeHigh: 80, WeeklyHigh: 80, DailyHigh: 80},
			wantNew: false,
		},
		{
			name:    "equal to all-time high counts as new high",
			user:    models.User{GameHighScore: 80, WeeklyHighScore: 80, DailyHighScore: 80, LastScoreUpdate: at(-time.Hour)},
			score:   80,
			want:    models.HighScores{CurrentScore: 80, AllTimeHigh: 80, WeeklyHigh: 80, DailyHigh: 80},
			wantNew: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			gotNew := ApplyHighScores(&user, tt.score, now)
			if got := HighScoresOf(&user, tt.score); got != tt.want {
				t.Errorf("scores = %+v, want %+v", got, tt.want)
			}
			if gotNew != tt.wantNew {
				t.Errorf("new high score = %v, want %v", gotNew, tt.wantNew)
			}
			if user.LastScoreUpdate == nil || !user.LastScoreUpdate.Equal(now) {
				t.Errorf("last score update = %v, want %v", user.LastScoreUpdate, now)
			}
		})
	}
}
