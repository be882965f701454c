package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"rento/config"
	"rento/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const sourceName = "iofs"

type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

const migrationsTableParam = "x-migrations-table"

// databaseURL points golang-migrate at the write database.
func databaseURL(config *config.Config) string {
	params := url.Values{}
	if config.DB.Postgres.MigrationTable != "" {
		params.Set(migrationsTableParam, config.DB.Postgres.MigrationTable)
	}

	return config.DB.Postgres.Write.URL(config.DB.Postgres.Prefix, params)
}

func newMigrator(config *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, migrations.PostgresDir)
	if err != nil {
		return nil, fmt.Errorf("error opening embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance(sourceName, source, databaseURL(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Run applies action against the write database. Having nothing to do is not an error.
func Run(config *config.Config, action Action) error {
	mig, err := newMigrator(config)
	if err != nil {
		return err
	}

	defer closeMigrator(mig)

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("unknown migration action %q", action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

// Version reports the applied schema version and whether the last migration failed halfway.
func Version(config *config.Config) (uint, bool, error) {
	mig, err := newMigrator(config)
	if err != nil {
		return 0, false, err
	}

	defer closeMigrator(mig)

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("error reading migration version: %w", err)
	}

	return version, dirty, nil
}

// Force marks version as applied without running it. It is the way out of a dirty state.
func Force(config *config.Config, version int) error {
	mig, err := newMigrator(config)
	if err != nil {
		return err
	}

	defer closeMigrator(mig)

	if err := mig.Force(version); err != nil {
		return fmt.Errorf("error forcing migration version %d: %w", version, err)
	}

	log.Warn().Int("version", version).Msg("Database migration version forced")

	return nil
}

// AutoMigrate brings the schema up to date on startup when the deployment asks for it.
func AutoMigrate(config *config.Config) error {
	if !config.DB.Postgres.AutoMigrate {
		return nil
	}

	return Run(config, ActionUp)
}

func closeMigrator(mig *migrate.Migrate) {
	sourceErr, dbErr := mig.Close()
	if err := errors.Join(sourceErr, dbErr); err != nil {
		log.Error().Err(err).Msg("Failed to close migrate instance")
	}
}
