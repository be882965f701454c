package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rento/config"
	"rento/internal/workers"
)

type fakeCompleter struct {
	mu      sync.Mutex
	results []int
	err     error
	calls   int
	limits  []int
}

func (f *fakeCompleter) CompleteExpired(_ context.Context, _ time.Time, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.limits = append(f.limits, limit)

	if f.err != nil {
		return 0, f.err
	}

	if len(f.results) == 0 {
		return 0, nil
	}

	next := f.results[0]
	f.results = f.results[1:]

	return next, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func sweeperConfig(seconds, batch int) *config.Config {
	cfg := &config.Config{}
	cfg.Booking.CompletionSweepSeconds = seconds
	cfg.Booking.CompletionBatchSize = batch

	return cfg
}

func TestSweep_DrainsFullBatches(t *testing.T) {
	completer := &fakeCompleter{results: []int{10, 10, 3}}

	workers.NewCompletionSweeper(sweeperConfig(60, 10), completer).Sweep(context.Background())

	assert.Equal(t, 3, completer.callCount())
	assert.Equal(t, []int{10, 10, 10}, completer.limits)
}

func TestSweep_StopsOnError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("database unavailable")}

	workers.NewCompletionSweeper(sweeperConfig(60, 10), completer).Sweep(context.Background())

	assert.Equal(t, 1, completer.callCount())
}

func TestRun_SweepsImmediatelyAndStopsWithContext(t *testing.T) {
	completer := &fakeCompleter{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		workers.NewCompletionSweeper(sweeperConfig(3600, 10), completer).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return completer.callCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
