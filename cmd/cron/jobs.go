package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"droppu/internal/services"
)

const (
	defaultPaymentExpirySchedule = "*/10 * * * *"
	// daily boards turn over at midnight UTC
	defaultLeaderboardSchedule = "0 0 * * *"
)

func schedule(ctx context.Context, serviceConfig *services.ServiceConfig, key string, defaultValue string) string {
	timeline, err := serviceConfig.GetStringConfig(ctx, key, defaultValue)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("read cron schedule")
	}
	if timeline == "" {
		return defaultValue
	}
	return timeline
}

// PaymentExpiryJob fails pending invoices nobody paid.
type PaymentExpiryJob struct {
	serviceConfig  *services.ServiceConfig
	servicePayment *services.ServicePayment
}

func NewPaymentExpiryJob(serviceConfig *services.ServiceConfig, servicePayment *services.ServicePayment) *PaymentExpiryJob {
	return &PaymentExpiryJob{serviceConfig, servicePayment}
}

func (j *PaymentExpiryJob) Start(ctx context.Context, cronRunner *cron.Cron) error {
	timeline := schedule(ctx, j.serviceConfig, services.CONFIG_CRONJOB_TIME_PAYMENT_EXPIRY, defaultPaymentExpirySchedule)
	_, err := cronRunner.AddFunc(timeline, func() { j.Run(ctx) })
	log.Info().Str("cron", timeline).Err(err).Msg("payment expiry cronjob")
	return err
}

func (j *PaymentExpiryJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := j.servicePayment.ExpireStale(ctx); err != nil {
		log.Error().Err(err).Msg("expire stale payments")
	}
}

// LeaderboardRolloverJob drops cached rankings once a daily or weekly window moves.
type LeaderboardRolloverJob struct {
	serviceConfig      *services.ServiceConfig
	serviceLeaderboard *services.ServiceLeaderboard
}

func NewLeaderboardRolloverJob(serviceConfig *services.ServiceConfig, serviceLeaderboard *services.ServiceLeaderboard) *LeaderboardRolloverJob {
	return &LeaderboardRolloverJob{serviceConfig, serviceLeaderboard}
}

func (j *LeaderboardRolloverJob) Start(ctx context.Context, cronRunner *cron.Cron) error {
	timeline := schedule(ctx, j.serviceConfig, services.CONFIG_CRONJOB_TIME_LEADERBOARD, defaultLeaderboardSchedule)
	_, err := cronRunner.AddFunc(timeline, func() { j.Run(ctx) })
	log.Info().Str("cron", timeline).Err(err).Msg("leaderboard rollover cronjob")
	return err
}

func (j *LeaderboardRolloverJob) Run(ctx context.Context) {
	for _, period := range []string{services.PERIOD_DAILY, services.PERIOD_WEEKLY} {
		if err := j.serviceLeaderboard.ClearLeaderboardCache(ctx, period); err != nil {
			log.Error().Err(err).Str("period", period).Msg("clear leaderboard cache")
			continue
		}
		log.Info().Str("period", period).Msg("leaderboard cache cleared")
	}
}
