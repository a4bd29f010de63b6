package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

// LeaderboardFilter selects the score column and the last_score_update window of a period.
// A zero From or To leaves that side of the window open.
type LeaderboardFilter struct {
	Column string
	From   time.Time
	To     time.Time
}

func rankedUsers(db bun.IDB, filter LeaderboardFilter) *bun.SelectQuery {
	q := db.NewSelect().
		Model((*models.User)(nil)).
		Column("id", "username").
		ColumnExpr("? AS score", bun.Ident(filter.Column)).
		ColumnExpr("RANK() OVER (ORDER BY ? DESC) AS rank", bun.Ident(filter.Column)).
		Where("? > 0", bun.Ident(filter.Column))

	if !filter.From.IsZero() {
		q = q.Where("last_score_update >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("last_score_update < ?", filter.To)
	}

	return q
}

func GetLeaderboard(ctx context.Context, db bun.IDB, filter LeaderboardFilter, limit int) ([]*models.LeaderboardItem, error) {
	items := []*models.LeaderboardItem{}
	err := db.NewSelect().
		TableExpr("(?) AS ranked", rankedUsers(db, filter)).
		ColumnExpr("id, username, score, rank").
		Order("rank ASC", "id ASC").
		Limit(limit).
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetLeaderboardEntry returns nil when the user is not part of the filtered ranking.
func GetLeaderboardEntry(ctx context.Context, db bun.IDB, filter LeaderboardFilter, userID int64) (*models.LeaderboardItem, error) {
	var item models.LeaderboardItem
	err := db.NewSelect().
		TableExpr("(?) AS ranked", rankedUsers(db, filter)).
		ColumnExpr("id, username, score, rank").
		Where("id = ?", userID).
		Scan(ctx, &item)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
