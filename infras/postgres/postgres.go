package postgres

//nolint:revive
import (
	"context"
	"errors"
	"time"

	"rento/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits reads and writes. Both may point at the same pool.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New connects to the primary and, when one is configured, the read replica.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := connect(context.Background(), "write", pg.Write, cfg)
	if cfg.DB.Postgres.Read.Host == "" {
		return NewFromDB(write)
	}

	return &Connection{
		Read:  connect(context.Background(), "read", cfg.ReadEndpoint(), cfg),
		Write: write,
	}
}

// NewFromDB serves reads and writes from a single handle.
func NewFromDB(db *sqlx.DB) *Connection {
	return &Connection{
		Read:  db,
		Write: db,
	}
}

// Close releases both pools. Read and Write may share a handle.
func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

// connect retries until the database answers or MaxRetry attempts are spent. It returns nil after the
// last failure, the caller's first query then reports the outage.
func connect(ctx context.Context, role string, endpoint config.PostgresEndpoint, cfg *config.Config) *sqlx.DB {
	pg := cfg.DB.Postgres
	wait := time.Duration(pg.RetryWaitTime) * time.Second
	logger := log.With().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", pg.Prefix+endpoint.Name).
		Logger()

	for attempt := 1; attempt <= max(1, pg.MaxRetry); attempt++ {
		db, err := sqlx.ConnectContext(ctx, driverName, endpoint.URL(pg.Prefix, nil))
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}

	logger.Error().Msg("Giving up connecting to database")

	return nil
}
