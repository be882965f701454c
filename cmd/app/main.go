package main

import (
	"context"
	"os"
	"os/signal"
	"rento/config"
	"rento/di"
	"rento/helper"
	"rento/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg.Server.Env)

	logger.SetLogLevel(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeApplication()

	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Application stopped with error")

		stop()
		os.Exit(1) //nolint:gocritic
	}

	log.Info().Msg("Application stopped")
}
