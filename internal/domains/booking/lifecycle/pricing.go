package lifecycle

import (
	"math"
	"rento/shared/constant"
	"rento/shared/failure"
	"time"
)

// RentalDays counts whole days between two calendar dates, rounding partial days up. A rental
// always lasts at least one day.
func RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(math.Ceil(hours / constant.HoursPerDay))

	return max(days, 1)
}

// TotalPrice is the per-day price times the number of rental days.
func TotalPrice(start, end time.Time, pricePerDay float64) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}

// ValidatePeriod requires start to be strictly before end.
func ValidatePeriod(start, end time.Time) error {
	if !start.Before(end) {
		return failure.BadRequestFromString("start_date must be before end_date") // nolint:wrapcheck
	}

	return nil
}
