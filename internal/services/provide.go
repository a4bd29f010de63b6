package services

import (
	"github.com/samber/do"

	"droppu/internal/config"
)

// Provide registers the business services. Infrastructure (databases, Redis clients, caches,
// limiter, redsync, clock, config, bot bindings) must already be provided.
func Provide(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Authentication, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		return NewAuthentication(cfg.JWTSecret, cfg.TokenTTL)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceReferral, error) {
		return NewServiceReferral(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceUser, error) {
		return NewServiceUser(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceTask, error) {
		return NewServiceTask(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLeaderboard, error) {
		return NewServiceLeaderboard(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceGame, error) {
		return NewServiceGame(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceInventory, error) {
		return NewServiceInventory(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServicePayment, error) {
		return NewServicePayment(i)
	})
}
