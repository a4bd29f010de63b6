package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/datastore"
	"droppu/internal/interfaces"
	"droppu/internal/models"
	"droppu/internal/pkg"
	"droppu/internal/pkg/caching"
)

const MessageNewReferral = `🎉 Great news! %s has just joined Droppu with your invite link.

You have a pending ticket 🎟 waiting for you. Open the app and claim your referral rewards.

Every coin your friends earn sends 10%% back to you, and 2.5%% from their friends. ✨`

const referralCodePrefix = "ref_"

type ServiceUser struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter
	validator          interfaces.InitDataValidator
	notifier           interfaces.Notifier
	now                pkg.Clock

	authentication  *Authentication
	serviceConfig   *ServiceConfig
	serviceReferral *ServiceReferral
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
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

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	validator, err := do.Invoke[interfaces.InitDataValidator](container)
	if err != nil {
		return nil, err
	}

	notifier, err := do.Invoke[interfaces.Notifier](container)
	if err != nil {
		return nil, err
	}

	now, err := do.Invoke[pkg.Clock](container)
	if err != nil {
		return nil, err
	}

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceReferral, err := do.Invoke[*ServiceReferral](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{
		container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, limiter, validator, notifier, now,
		authentication, serviceConfig, serviceReferral,
	}, nil
}

// ParseReferralCode accepts "ref_<id>" or a bare "<id>".
func ParseReferralCode(code string) (int64, bool) {
	code = strings.TrimPrefix(strings.TrimSpace(code), referralCodePrefix)
	id, err := strconv.ParseInt(code, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func ReferralCode(userID int64) string {
	return fmt.Sprintf("%s%d", referralCodePrefix, userID)
}

// InitUser logs a Telegram user in from Mini App init data, creating the account on first
// sight. refCode, or the init data start_param, links a new account to its referrer.
func (service *ServiceUser) InitUser(ctx context.Context, initData string, refCode string) (*models.User, error) {
	userAuth, err := service.validator.ValidateInitData(initData)
	if err != nil {
		return nil, err
	}

	err = service.limiter.Allow(ctx, LimitKeyInitUser(userAuth.TgID), redis_rate.PerMinute(INIT_USER_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyInitUser(userAuth.TgID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrUserLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	if refCode == "" {
		refCode = userAuth.StartParam
	}

	now := service.now()
	var user, referrer *models.User
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := datastore.FindUserByTgID(ctx, tx, userAuth.TgID)
		if err == nil {
			existing.Username = strings.ToLower(userAuth.Username)
			existing.FirstName = userAuth.FirstName
			existing.LastName = userAuth.LastName
			existing.PhotoURL = userAuth.PhotoURL
			existing.LastLoginDate = &now
			existing.UpdatedAt = now
			user = existing
			return datastore.UpdateUserProfile(ctx, tx, existing)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		newUser := &models.User{
			TgID:             userAuth.TgID,
			Username:         strings.ToLower(userAuth.Username),
			FirstName:        userAuth.FirstName,
			LastName:         userAuth.LastName,
			PhotoURL:         userAuth.PhotoURL,
			Language:         userAuth.LanguageCode,
			RegistrationDate: now,
			LastLoginDate:    &now,
			UpdatedAt:        now,
		}

		// the parent always predates the new account, so links can never form a cycle
		if parentID, ok := ParseReferralCode(refCode); ok {
			parent, err := datastore.FindUserByID(ctx, tx, parentID)
			switch {
			case err == nil:
				newUser.ParentID = &parent.ID
				referrer = parent
			case errors.Is(err, sql.ErrNoRows):
				log.Info().Int64("tg_id", userAuth.TgID).Str("ref", refCode).Msg("referral code does not match an account")
			default:
				return err
			}
		}

		if _, err := datastore.CreateUser(ctx, tx, newUser); err != nil {
			return err
		}

		if referrer != nil {
			if err := service.serviceReferral.Accrue(ctx, tx, referrer.ID, newUser.ID, 0, true); err != nil {
				return err
			}
		}

		newUser.IsNewUser = true
		user = newUser
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !user.IsNewUser {
		if err := service.cache.Delete(ctx, DBKeyUser(user.ID)); err != nil {
			log.Warn().Err(err).Int64("user", user.ID).Msg("clear user cache")
		}
		return user, nil
	}

	log.Info().Int64("user", user.ID).Int64("tg_id", user.TgID).Interface("parent", user.ParentID).Msg("user created")
	if referrer != nil {
		go service.notifyReferrer(referrer, user)
	}

	return user, nil
}

func (service *ServiceUser) notifyReferrer(referrer *models.User, referee *models.User) {
	name := fmt.Sprintf("@%s", referee.Username)
	if referee.Username == "" {
		name = strings.TrimSpace(fmt.Sprintf("%s %s", referee.FirstName, referee.LastName))
	}

	text, err := service.serviceConfig.GetStringConfig(context.Background(), CONFIG_TEXT_NEW_REFERRAL, MessageNewReferral)
	if err != nil {
		log.Warn().Err(err).Msg("read referral message")
	}

	if err := service.notifier.SendMsg(referrer.TgID, fmt.Sprintf(text, name)); err != nil {
		log.Warn().Err(err).Int64("user", referrer.ID).Msg("notify referrer")
	}
}

func (service *ServiceUser) IssueToken(user *models.User) (string, error) {
	return service.authentication.CreateToken(user.ID)
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		return service.FindUserByIDNoCache(ctx, userID)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceUser) FindUserByIDNoCache(ctx context.Context, userID int64) (*models.User, error) {
	user, err := datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies the non-nil fields of patch. Users may only edit their own profile.
func (service *ServiceUser) UpdateProfile(ctx context.Context, actorID, userID int64, patch *models.UserProfilePatch) (*models.User, error) {
	if actorID != userID {
		return nil, ErrNotOwner
	}

	user, err := datastore.FindUserByID(ctx, service.postgresDB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch != nil {
		if patch.Username != nil {
			user.Username = strings.ToLower(strings.TrimSpace(*patch.Username))
		}
		if patch.Region != nil {
			user.Region = *patch.Region
		}
		if patch.Language != nil {
			user.Language = *patch.Language
		}
	}
	user.UpdatedAt = service.now()

	if err := datastore.UpdateUserProfile(ctx, service.postgresDB, user); err != nil {
		return nil, err
	}

	if err := service.cache.Delete(ctx, DBKeyUser(userID)); err != nil {
		log.Warn().Err(err).Int64("user", userID).Msg("clear user cache")
	}

	return user, nil
}

// ensureUser rejects tokens whose account no longer exists.
func ensureUser(ctx context.Context, db bun.IDB, userID int64) error {
	exists, err := datastore.UserExists(ctx, db, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (service *ServiceUser) GetEarnings(ctx context.Context, userID int64, limit, offset int) ([]*models.Earning, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return datastore.GetEarningsByUser(ctx, service.readonlyPostgresDB, userID, limit, offset)
}
