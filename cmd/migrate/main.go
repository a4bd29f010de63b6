package main

import (
	"context"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"

	"droppu/internal/datastore"
	"droppu/internal/pkg/database"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

type dbConfig struct {
	DSN      string `env:"DB_DSN,required,notEmpty"`
	Password string `env:"DB_PASSWORD"`
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeed(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func getDb() (*bun.DB, error) {
	var cfg dbConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return database.Open(cfg.DSN, cfg.Password)
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create tables and indexes",
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := datastore.CreateTables(context.Background(), db); err != nil {
				return err
			}

			log.Info().Msg("migration done")
			return nil
		},
	}
}

func commandSeed() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert the default tasks, items and runtime config",
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seed(context.Background(), db); err != nil {
				return err
			}

			log.Info().Msg("seed done")
			return nil
		},
	}
}
