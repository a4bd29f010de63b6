package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"

	"droppu/internal/config"
	"droppu/internal/container"
	"droppu/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

type CronJob interface {
	Start(ctx context.Context, cronRunner *cron.Cron) error
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			injector := container.New(cfg)
			// nolint:errcheck
			defer injector.Shutdown()

			jobs, err := newJobs(injector)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cronRunner := cron.New(cron.WithLocation(time.UTC))
			for _, job := range jobs {
				if err := job.Start(ctx, cronRunner); err != nil {
					return err
				}
			}

			log.Info().Int("jobs", len(cronRunner.Entries())).Msg("start cronjob")
			cronRunner.Start()
			<-ctx.Done()
			<-cronRunner.Stop().Done()
			return nil
		},
	}
}

func newJobs(injector *do.Injector) ([]CronJob, error) {
	serviceConfig, err := do.Invoke[*services.ServiceConfig](injector)
	if err != nil {
		return nil, err
	}

	servicePayment, err := do.Invoke[*services.ServicePayment](injector)
	if err != nil {
		return nil, err
	}

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](injector)
	if err != nil {
		return nil, err
	}

	return []CronJob{
		NewPaymentExpiryJob(serviceConfig, servicePayment),
		NewLeaderboardRolloverJob(serviceConfig, serviceLeaderboard),
	}, nil
}
