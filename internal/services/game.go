package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/pkg"
	"droppu/internal/pkg/caching"
	"droppu/internal/pkg/metrics"
)

type ServiceGame struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	now                pkg.Clock

	serviceLeaderboard *ServiceLeaderboard
}

func NewServiceGame(container *do.Injector) (*ServiceGame, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	now, err := do.Invoke[pkg.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGame{container, rs, postgresDB, readonlyPostgresDB, cache, now, serviceLeaderboard}, nil
}

// StartSession opens a new active session. Earlier active sessions of the user stay open.
func (service *ServiceGame) StartSession(ctx context.Context, accountID int64, gameType string) (*models.GameSession, error) {
	gameType = strings.TrimSpace(gameType)
	if gameType == "" {
		return nil, ErrMissingGameType
	}

	if err := ensureUser(ctx, service.postgresDB, accountID); err != nil {
		return nil, err
	}

	session := &models.GameSession{
		UserID:    accountID,
		GameType:  gameType,
		StartTime: service.now(),
		Status:    models.SessionStatusActive,
	}
	if err := datastore.CreateGameSession(ctx, service.postgresDB, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (service *ServiceGame) GetSession(ctx context.Context, accountID, sessionID int64) (*models.GameSession, error) {
	session, err := datastore.GetGameSessionByID(ctx, service.readonlyPostgresDB, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != accountID {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// EndSession completes an active session, credits coinsEarned and folds score into the high scores.
func (service *ServiceGame) EndSession(ctx context.Context, accountID, sessionID, coinsEarned, score int64) (*models.GameResult, error) {
	if coinsEarned < 0 || score < 0 {
		return nil, ErrInvalidScore
	}

	mutex := service.rs.NewMutex(LockKeyUserGame(accountID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrSessionLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.now()
	result := &models.GameResult{SessionID: sessionID, CoinsEarned: coinsEarned}
	gameType := ""
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		session := &models.GameSession{
			ID:          sessionID,
			UserID:      accountID,
			CoinsEarned: coinsEarned,
			Score:       score,
			EndTime:     &now,
			Status:      models.SessionStatusCompleted,
		}
		ok, err := datastore.CompleteGameSession(ctx, tx, session)
		if err != nil {
			return err
		}
		if !ok {
			existing, err := datastore.GetGameSessionByID(ctx, tx, sessionID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			if err != nil {
				return err
			}
			if existing.UserID != accountID {
				return ErrSessionNotFound
			}
			return ErrSessionNotActive
		}

		session, err = datastore.GetGameSessionByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		gameType = session.GameType

		user, err := datastore.FindUserByID(ctx, tx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if err := datastore.AddUserBalances(ctx, tx, user, coinsEarned, 0, 0, now); err != nil {
			return err
		}

		err = datastore.InsertEarnings(ctx, tx, &models.Earning{
			UserID:     accountID,
			Amount:     coinsEarned,
			Currency:   models.CurrencyCoins,
			SourceType: models.SourceGameReward,
			SourceID:   &sessionID,
			Notes:      fmt.Sprintf("Game reward: %s", gameType),
			Date:       now,
		})
		if err != nil {
			return err
		}

		result.NewHighScore = ApplyHighScores(user, score, now)
		user.UpdatedAt = now
		if err := datastore.UpdateUserScores(ctx, tx, user); err != nil {
			return err
		}

		result.Scores = HighScoresOf(user, score)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := service.cache.Delete(ctx, DBKeyUser(accountID)); err != nil {
		log.Warn().Err(err).Int64("user", accountID).Msg("clear user cache")
	}
	if err := service.serviceLeaderboard.ClearLeaderboardCache(ctx, ""); err != nil {
		log.Warn().Err(err).Msg("clear leaderboard cache")
	}

	metrics.SessionsEnded.WithLabelValues(gameType).Inc()
	metrics.RewardsGranted.WithLabelValues(models.SourceGameReward).Add(float64(coinsEarned))
	return result, nil
}
