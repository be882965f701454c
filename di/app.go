package di

import (
	"context"
	"errors"
	"rento/infras/kafka"
	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/infras/realtime"
	"rento/internal/workers"
	"rento/transport/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const flushTimeout = 5 * time.Second

// Application is everything one instance runs.
type Application struct {
	HTTP    *http.HTTP
	Hub     realtime.Hub
	Sweeper *workers.CompletionSweeper
	Alerts  *workers.AlertConsumer
	Otel    otel.Otel
	DB      *postgres.Connection
	Redis   *redis.Client
	Kafka   kafka.Client
}

// Run serves until ctx is cancelled or a component fails, then releases the connections.
func (a *Application) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.Hub.Run(ctx)

		return nil
	})

	group.Go(func() error {
		a.Sweeper.Run(ctx)

		return nil
	})

	group.Go(func() error {
		return a.Alerts.Run(ctx)
	})

	group.Go(func() error {
		return a.HTTP.Serve(ctx)
	})

	err := group.Wait()

	a.close()

	return err //nolint:wrapcheck
}

func (a *Application) close() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	err := errors.Join(
		a.Kafka.Close(),
		a.Redis.Close(),
		a.DB.Close(),
		a.Otel.Shutdown(ctx),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to release resources")

		return
	}

	log.Info().Msg("Resources released")
}
