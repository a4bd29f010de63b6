package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

type ServiceTask struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	now                pkg.Clock

	serviceReferral *ServiceReferral
}

func NewServiceTask(container *do.Injector) (*ServiceTask, error) {
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	now, err := do.Invoke[pkg.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceReferral, err := do.Invoke[*ServiceReferral](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTask{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, now, serviceReferral}, nil
}

func (service *ServiceTask) GetTasks(ctx context.Context) ([]*models.Task, error) {
	callback := func() ([]*models.Task, error) {
		return datastore.GetTasks(ctx, service.readonlyPostgresDB)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyTasks(), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceTask) GetIncompleteTasks(ctx context.Context, accountID int64) ([]*models.Task, error) {
	return datastore.GetIncompleteTasks(ctx, service.readonlyPostgresDB, accountID)
}

// Complete records that accountID finished taskID. Only the first completion grants the reward.
func (service *ServiceTask) Complete(ctx context.Context, accountID, taskID int64) (*models.CompletionResult, error) {
	task, err := datastore.FindTaskByID(ctx, service.postgresDB, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyUserTask(accountID, taskID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrTaskLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.now()
	result := &models.CompletionResult{}
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := datastore.FindUserByID(ctx, tx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		err = datastore.EnsureUserTask(ctx, tx, &models.UserTask{
			UserID:            accountID,
			TaskID:            taskID,
			Status:            models.TaskStatusCompleted,
			LastCompletedDate: now,
		})
		if err != nil {
			return err
		}

		granted, err := datastore.MarkUserTaskRewarded(ctx, tx, accountID, taskID, now)
		if err != nil {
			return err
		}

		if !granted {
			result.Outcome = models.CompletionAlreadyGranted
			result.UserTask, err = datastore.RestampUserTask(ctx, tx, accountID, taskID, now)
			return err
		}

		if err := datastore.AddUserBalances(ctx, tx, user, task.RewardCoins, task.RewardTokens, task.RewardTickets, now); err != nil {
			return err
		}

		sourceID := task.ID
		err = datastore.InsertEarnings(ctx, tx, &models.Earning{
			UserID:     accountID,
			Amount:     task.RewardCoins,
			Currency:   models.CurrencyCoins,
			SourceType: models.SourceTaskCompletion,
			SourceID:   &sourceID,
			Notes:      fmt.Sprintf("Completed task: %s", task.Name),
			Date:       now,
		})
		if err != nil {
			return err
		}

		if user.ParentID != nil {
			if err := service.serviceReferral.Accrue(ctx, tx, *user.ParentID, accountID, task.RewardCoins, false); err != nil {
				return err
			}
		}

		result.Outcome = models.CompletionGranted
		result.Reward = task
		result.UserTask, err = datastore.FindUserTask(ctx, tx, accountID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Granted() {
		if err := service.cache.Delete(ctx, DBKeyUser(accountID)); err != nil {
			log.Warn().Err(err).Int64("user", accountID).Msg("clear user cache")
		}
		metrics.RewardsGranted.WithLabelValues(models.SourceTaskCompletion).Add(float64(task.RewardCoins))
		log.Info().Int64("user", accountID).Int64("task", taskID).Msg("task reward granted")
	}

	return result, nil
}
