package models

type LeaderboardItem struct {
	UserID   int64  `bun:"id" json:"user_id"`
	Username string `bun:"username" json:"username"`
	Score    int64  `bun:"score" json:"score"`
	Rank     int64  `bun:"rank" json:"rank"`
}

type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Leaderboard []*LeaderboardItem `json:"leaderboard"`
	Me          *LeaderboardItem   `json:"me"`
}
