package lifecycle_test

import (
	"net/http"
	"rento/internal/domains/booking/lifecycle"
	"rento/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		days  int
	}{
		{name: "three nights", start: date(2024, 1, 1), end: date(2024, 1, 4), days: 3},
		{name: "single day", start: date(2024, 1, 1), end: date(2024, 1, 2), days: 1},
		{name: "partial day rounds up", start: date(2024, 1, 1), end: date(2024, 1, 2).Add(2 * time.Hour), days: 2},
		{name: "under a day counts as one", start: date(2024, 1, 1), end: date(2024, 1, 1).Add(3 * time.Hour), days: 1},
		{name: "across leap day", start: date(2024, 2, 28), end: date(2024, 3, 1), days: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, lifecycle.RentalDays(tt.start, tt.end))
		})
	}
}

func TestTotalPrice(t *testing.T) {
	assert.InDelta(t, 150.0, lifecycle.TotalPrice(date(2024, 1, 1), date(2024, 1, 4), 50), 1e-9)
	assert.InDelta(t, 12.5, lifecycle.TotalPrice(date(2024, 1, 1), date(2024, 1, 2), 12.5), 1e-9)
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, lifecycle.ValidatePeriod(date(2024, 1, 1), date(2024, 1, 2)))

	err := lifecycle.ValidatePeriod(date(2024, 1, 2), date(2024, 1, 2))
	assert.True(t, failure.Is(err, http.StatusBadRequest))

	err = lifecycle.ValidatePeriod(date(2024, 1, 3), date(2024, 1, 2))
	assert.EqualError(t, err, "start_date must be before end_date")
}
