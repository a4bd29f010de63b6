package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	tele "gopkg.in/telebot.v3"

	"droppu/internal/config"
	"droppu/internal/container"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

const contextContainer = "context-container"

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Usage:  "long poll telegram updates",
		Action: action,
	}
}

func action(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	injector := container.New(cfg)
	// nolint:errcheck
	defer injector.Shutdown()

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("bot handler")
		},
	})
	if err != nil {
		return err
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil {
				// nolint:errcheck
				defer c.Respond()
			}
			c.Set(contextContainer, injector)
			return next(c)
		}
	})

	handleStaticCommands(b, cfg)
	handleStarCommands(b)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	log.Info().Str("bot", b.Me.Username).Msg("bot started")
	b.Start()
	return nil
}

func getContextContainer(c tele.Context) (*do.Injector, bool) {
	injector, ok := c.Get(contextContainer).(*do.Injector)
	return injector, ok
}
