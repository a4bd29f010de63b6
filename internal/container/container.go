// Package container builds the dependency injector shared by every droppu binary.
package container

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/config"
	"droppu/internal/interfaces"
	"droppu/internal/pkg"
	"droppu/internal/pkg/caching"
	"droppu/internal/pkg/database"
	"droppu/internal/pkg/limiter"
	"droppu/internal/services"
)

func newRedis(clusterURL string, url string, readOnly bool) (redis.UniversalClient, error) {
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		clusterOpts.ReadOnly = readOnly
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: url,
	})
}

// New registers infrastructure, the Telegram bot and every service. Nothing connects until
// first use.
func New(cfg *config.Config) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, pkg.Clock(pkg.UTCClock))

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return database.Open(cfg.DBDSN, cfg.DBPassword)
	})

	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		if cfg.DBDSNReadonly == "" {
			return do.Invoke[*bun.DB](i)
		}
		return database.Open(cfg.DBDSNReadonly, cfg.DBPasswordReadonly)
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis(cfg.ClusterRedisCache, config.Or(cfg.RedisCache, cfg.Redis), false)
	})

	do.ProvideNamed(injector, "redis-cache-readonly", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis(
			config.Or(cfg.ClusterRedisCacheReadonly, cfg.ClusterRedisCache),
			config.Or(cfg.RedisCacheReadonly, cfg.RedisCache, cfg.Redis),
			true,
		)
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis(cfg.ClusterRedisLimiter, config.Or(cfg.RedisLimiter, cfg.Redis), false)
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis(cfg.ClusterRedisMutex, config.Or(cfg.RedisMutex, cfg.Redis), false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache-readonly")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		rs := redsync.New(pool)
		return rs, nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Bot, error) {
		return services.NewBot(cfg.BotToken, cfg.InitDataTTL, cfg.WebAppURL)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Notifier, error) {
		return do.Invoke[*services.Bot](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.InvoiceIssuer, error) {
		return do.Invoke[*services.Bot](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.InitDataValidator, error) {
		return do.Invoke[*services.Bot](i)
	})

	services.Provide(injector)

	return injector
}
