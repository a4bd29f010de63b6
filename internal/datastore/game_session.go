package datastore

import (
	"context"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGameSession(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.GameSession)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.GameSession)(nil)).Index("index_game_session_user_id_status").IfNotExists().Column("user_id", "status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateGameSession(ctx context.Context, db bun.IDB, gameSession *models.GameSession) error {
	_, err := db.NewInsert().Model(gameSession).Returning("*").Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetGameSessionByID(ctx context.Context, db bun.IDB, gameSessionID int64) (*models.GameSession, error) {
	var gameSession models.GameSession
	err := db.NewSelect().Model(&gameSession).Where("id = ?", gameSessionID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &gameSession, nil
}

// CompleteGameSession closes an active session owned by userID. ok is false when no active
// session matched, leaving the caller to tell a missing session from a finished one.
func CompleteGameSession(ctx context.Context, db bun.IDB, gameSession *models.GameSession) (bool, error) {
	res, err := db.NewUpdate().
		Model(gameSession).
		Column("coins_earned", "score", "end_time", "status").
		Where("id = ?", gameSession.ID).
		Where("user_id = ?", gameSession.UserID).
		Where("status = ?", models.SessionStatusActive).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
