package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/datastore"
	"droppu/internal/models"
	"droppu/internal/pkg"
	"droppu/internal/pkg/caching"
)

type ServiceLeaderboard struct {
	container          *do.Injector
	redisDBCache       redis.UniversalClient
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	now                pkg.Clock

	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	dbRedisCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	now, err := do.Invoke[pkg.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, dbRedisCache, readonlyPostgresDB, cache, readonlyCache, now, serviceConfig}, nil
}

func ParsePeriod(period string) (string, error) {
	switch period {
	case PERIOD_ALL_TIME, PERIOD_WEEKLY, PERIOD_DAILY:
		return period, nil
	}
	return "", ErrInvalidPeriod
}

// PeriodFilter maps a period to its score column and last_score_update window as of now.
func PeriodFilter(period string, now time.Time) (datastore.LeaderboardFilter, error) {
	switch period {
	case PERIOD_ALL_TIME:
		return datastore.LeaderboardFilter{Column: "game_high_score"}, nil
	case PERIOD_WEEKLY:
		return datastore.LeaderboardFilter{Column: "weekly_high_score", From: now.Add(-weeklyWindow)}, nil
	case PERIOD_DAILY:
		return datastore.LeaderboardFilter{Column: "daily_high_score", From: pkg.StartOfDayUTC(now), To: pkg.NextMidnightUTC(now)}, nil
	}
	return datastore.LeaderboardFilter{}, ErrInvalidPeriod
}

// GetLeaderboard returns the top of the period ranking and the caller's own entry, nil when the
// caller is not ranked.
func (service *ServiceLeaderboard) GetLeaderboard(ctx context.Context, userID int64, period string, limit int) (*models.LeaderboardResponse, error) {
	period, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	maxLimit, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_MAX_LIMIT, LEADERBOARD_DEFAULT_MAX_LIMIT)
	if err != nil {
		log.Warn().Err(err).Msg("read leaderboard max limit")
	}
	if limit <= 0 {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	callback := func() (*models.LeaderboardResponse, error) {
		filter, err := PeriodFilter(period, service.now())
		if err != nil {
			return nil, err
		}

		items, err := datastore.GetLeaderboard(ctx, service.readonlyPostgresDB, filter, limit)
		if err != nil {
			return nil, err
		}

		me, err := datastore.GetLeaderboardEntry(ctx, service.readonlyPostgresDB, filter, userID)
		if err != nil {
			return nil, err
		}

		return &models.LeaderboardResponse{
			Period:      period,
			Leaderboard: items,
			Me:          me,
		}, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardByUser(period, userID, limit), CACHE_TTL_1_MIN, callback)
}

// ClearLeaderboardCache drops cached boards of one period, or of all periods when period is empty.
func (service *ServiceLeaderboard) ClearLeaderboardCache(ctx context.Context, period string) error {
	return caching.DeleteKeys(ctx, service.redisDBCache, DBKeyLeaderboardPattern(period))
}
