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

type ServiceReferral struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	now                pkg.Clock
}

func NewServiceReferral(container *do.Injector) (*ServiceReferral, error) {
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

	return &ServiceReferral{container, rs, postgresDB, readonlyPostgresDB, cache, now}, nil
}

// CommissionSplit returns the direct (10%) and indirect (2.5%) shares of earned, rounded down.
func CommissionSplit(earned int64) (int64, int64) {
	if earned <= 0 {
		return 0, 0
	}
	return earned * REFERRAL_DIRECT_BPS / 10000, earned * REFERRAL_INDIRECT_BPS / 10000
}

// Accrue records pending rewards for referrerID caused by refereeID. When db is nil it runs in
// its own transaction, otherwise the rows join the caller's.
func (service *ServiceReferral) Accrue(ctx context.Context, db bun.IDB, referrerID, refereeID, earnedCoins int64, isNewReferral bool) error {
	if db != nil {
		return service.accrue(ctx, db, referrerID, refereeID, earnedCoins, isNewReferral)
	}

	return service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return service.accrue(ctx, tx, referrerID, refereeID, earnedCoins, isNewReferral)
	})
}

func (service *ServiceReferral) accrue(ctx context.Context, db bun.IDB, referrerID, refereeID, earnedCoins int64, isNewReferral bool) error {
	now := service.now()
	rewards := []*models.PendingReferralReward{}
	tiers := []string{}

	if isNewReferral {
		rewards = append(rewards, &models.PendingReferralReward{
			ReferrerID: referrerID,
			RefereeID:  refereeID,
			Tickets:    REFERRAL_SIGNUP_TICKETS,
			CreatedAt:  now,
		})
		tiers = append(tiers, "signup")
	}

	if earnedCoins > 0 {
		direct, indirect := CommissionSplit(earnedCoins)
		if direct > 0 {
			rewards = append(rewards, &models.PendingReferralReward{
				ReferrerID: referrerID,
				RefereeID:  refereeID,
				Coins:      direct,
				CreatedAt:  now,
			})
			tiers = append(tiers, "direct")
		}

		referrer, err := datastore.FindUserByID(ctx, db, referrerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		// two tiers only: the grandparent's own parent earns nothing
		if referrer.ParentID != nil && indirect > 0 {
			rewards = append(rewards, &models.PendingReferralReward{
				ReferrerID: *referrer.ParentID,
				RefereeID:  refereeID,
				Coins:      indirect,
				CreatedAt:  now,
			})
			tiers = append(tiers, "indirect")
		}
	}

	if err := datastore.InsertPendingReferralRewards(ctx, db, rewards...); err != nil {
		return err
	}

	for _, tier := range tiers {
		metrics.ReferralAccruals.WithLabelValues(tier).Inc()
	}
	return nil
}

// ClaimPending moves every unclaimed reward of accountID into its balances.
func (service *ServiceReferral) ClaimPending(ctx context.Context, accountID int64) (*models.ClaimResult, error) {
	mutex := service.rs.NewMutex(LockKeyUserClaim(accountID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrClaimLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	now := service.now()
	result := &models.ClaimResult{}
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := datastore.FindUserByID(ctx, tx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		rewards, err := datastore.ClaimPendingReferralRewards(ctx, tx, accountID, now)
		if err != nil {
			return err
		}
		if len(rewards) == 0 {
			return ErrNoPendingRewards
		}

		earnings := []*models.Earning{}
		for _, reward := range rewards {
			result.ClaimedCoins += reward.Coins
			result.ClaimedTickets += reward.Tickets
			if reward.Coins == 0 {
				continue
			}

			refereeID := reward.RefereeID
			earnings = append(earnings, &models.Earning{
				UserID:     accountID,
				Amount:     reward.Coins,
				Currency:   models.CurrencyCoins,
				SourceType: models.SourceReferralReward,
				SourceID:   &refereeID,
				Notes:      fmt.Sprintf("Referral reward from user %d", reward.RefereeID),
				Date:       now,
			})
		}

		if err := datastore.InsertEarnings(ctx, tx, earnings...); err != nil {
			return err
		}

		if err := datastore.AddUserBalances(ctx, tx, user, result.ClaimedCoins, 0, result.ClaimedTickets, now); err != nil {
			return err
		}

		result.Coins = user.Coins
		result.Tickets = user.Tickets
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := service.cache.Delete(ctx, DBKeyUser(accountID)); err != nil {
		log.Warn().Err(err).Int64("user", accountID).Msg("clear user cache")
	}

	metrics.ReferralClaims.Inc()
	metrics.RewardsGranted.WithLabelValues(models.SourceReferralReward).Add(float64(result.ClaimedCoins))
	log.Info().Int64("user", accountID).Int64("coins", result.ClaimedCoins).Int64("tickets", result.ClaimedTickets).Msg("referral rewards claimed")

	return result, nil
}

func (service *ServiceReferral) GetPendingRewards(ctx context.Context, accountID int64) (*models.PendingRewards, error) {
	details, err := datastore.GetPendingRewardDetails(ctx, service.readonlyPostgresDB, accountID)
	if err != nil {
		return nil, err
	}

	pending := &models.PendingRewards{RewardsFrom: details}
	for _, detail := range details {
		pending.TotalCoins += detail.Coins
		pending.TotalTickets += detail.Tickets
	}

	return pending, nil
}

func (service *ServiceReferral) ListReferrals(ctx context.Context, accountID int64) ([]*models.Referral, error) {
	referrals, err := datastore.GetReferralsByParent(ctx, service.readonlyPostgresDB, accountID)
	if err != nil {
		return nil, err
	}
	if referrals == nil {
		referrals = []*models.Referral{}
	}

	return referrals, nil
}
