// Package workers holds the background loops started next to the HTTP server.
package workers

import (
	"context"
	"time"

	"rento/config"
	"rento/shared/timezone"

	"github.com/rs/zerolog/log"
)

const defaultSweepInterval = 5 * time.Minute

// BookingCompleter moves ended rentals to COMPLETED.
type BookingCompleter interface {
	CompleteExpired(ctx context.Context, today time.Time, limit int) (int, error)
}

// CompletionSweeper periodically completes CONFIRMED bookings whose end date has passed.
type CompletionSweeper struct {
	bookings BookingCompleter
	interval time.Duration
	batch    int
}

func NewCompletionSweeper(cfg *config.Config, bookings BookingCompleter) *CompletionSweeper {
	interval := time.Duration(cfg.Booking.CompletionSweepSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &CompletionSweeper{
		bookings: bookings,
		interval: interval,
		batch:    cfg.Booking.CompletionBatchSize,
	}
}

// Run sweeps once right away and then on every tick until ctx is done.
func (w *CompletionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Int("batch", w.batch).Msg("completion sweeper started")

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("completion sweeper stopped")

			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep completes due bookings batch by batch until a batch comes back short.
func (w *CompletionSweeper) Sweep(ctx context.Context) {
	today := timezone.Today()

	for ctx.Err() == nil {
		completed, err := w.bookings.CompleteExpired(ctx, today, w.batch)
		if err != nil {
			log.Error().Err(err).Msg("completion sweep failed")

			return
		}

		if completed > 0 {
			log.Info().Int("completed", completed).Msg("completed ended bookings")
		}

		if w.batch <= 0 || completed < w.batch {
			return
		}
	}
}
