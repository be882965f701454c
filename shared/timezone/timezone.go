package timezone

import (
	"sync"
	"time"

	"rento/config"
	"rento/shared/constant"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var (
	loadOnce    sync.Once
	appLocation *time.Location
)

// Load resolves an IANA zone name. Unknown or empty names fall back to UTC.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	return loc
}

// Location is the application zone, read from configuration on first use.
func Location() *time.Location {
	loadOnce.Do(func() {
		appLocation = Load(config.Get().App.Timezone)
		log.Info().Str("timezone", appLocation.String()).Msg("Application timezone initialized")
	})

	return appLocation
}

// Now returns the current instant in the application zone.
func Now() time.Time {
	return time.Now().In(Location())
}

// Format renders an instant in the application zone.
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(constant.CalendarFormat, value)
}

// FormatDate renders the calendar date part of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(constant.CalendarFormat)
}

// Today is the current calendar date in the application zone, expressed like ParseDate output.
func Today() time.Time {
	now := Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
