package services

import (
	"time"

	"droppu/internal/models"
	"droppu/internal/pkg"
)

const weeklyWindow = 7 * 24 * time.Hour

// ApplyHighScores folds score into the user's rolling highs as of now and stamps
// last_score_update. The daily and weekly resets both compare against the previous stamp.
// It reports whether score equals the resulting all-time high.
func ApplyHighScores(user *models.User, score int64, now time.Time) bool {
	prior := user.LastScoreUpdate

	if score > user.GameHighScore {
		user.GameHighScore = score
	}

	if prior == nil || !pkg.SameDateUTC(*prior, now) {
		user.DailyHighScore = score
	} else if score > user.DailyHighScore {
		user.DailyHighScore = score
	}

	if prior == nil || now.Sub(*prior) >= weeklyWindow {
		user.WeeklyHighScore = score
	} else if score > user.WeeklyHighScore {
		user.WeeklyHighScore = score
	}

	stamp := now
	user.LastScoreUpdate = &stamp

	return score == user.GameHighScore
}

func HighScoresOf(user *models.User, score int64) models.HighScores {
	return models.HighScores{
		CurrentScore: score,
		AllTimeHigh:  user.GameHighScore,
		WeeklyHigh:   user.WeeklyHighScore,
		DailyHigh:    user.DailyHighScore,
	}
}
