package main

import (
	"context"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/config"
	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/seed"
	"github.com/leadline/crm-server/internal/util"
)

type seedConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Password    string `env:"SEED_PASSWORD" envDefault:"password123"`
	Migrate     bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBMigrateTimeout)
	defer cancel()

	if cfg.Migrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	hash, err := util.HashPassword(cfg.Password, util.DefaultPasswordCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	if err := seed.Run(ctx, db, hash); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
