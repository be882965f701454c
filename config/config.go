package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Booking struct {
		CompletionSweepSeconds int `envconfig:"COMPLETION_SWEEP_SECONDS" default:"300"`
		CompletionBatchSize    int `envconfig:"COMPLETION_BATCH_SIZE"    default:"100"`
	} `envconfig:"BOOKING"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MaxOpenConns   int    `envconfig:"MAX_OPEN_CONNS"  default:"10"`
			MaxIdleConns   int    `envconfig:"MAX_IDLE_CONNS"  default:"10"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			// Read falls back to Write when no read host is configured.
			Read  PostgresEndpoint `envconfig:"READ"`
			Write PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Alert string `envconfig:"ALERT" default:"rento.alerts"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Realtime struct {
		WriteWaitSeconds  int `envconfig:"WRITE_WAIT_SECONDS"  default:"10"`
		PingPeriodSeconds int `envconfig:"PING_PERIOD_SECONDS" default:"30"`
		SendBuffer        int `envconfig:"SEND_BUFFER"         default:"16"`
	} `envconfig:"REALTIME"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// URL renders a postgres:// connection string. prefix is prepended to the database name and params
// are added next to sslmode.
func (e PostgresEndpoint) URL(prefix string, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}

	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + prefix + e.Name,
		RawQuery: query.Encode(),
	}).String()
}

// ReadEndpoint returns the replica endpoint, or the primary when none is set.
func (c *Config) ReadEndpoint() PostgresEndpoint {
	if c.DB.Postgres.Read.Host == "" {
		return c.DB.Postgres.Write
	}

	return c.DB.Postgres.Read
}

var (
	conf Config
	once sync.Once
)

const defaultEnvFile = ".env"

// Load reads the given dotenv files into the environment, skipping missing ones, then decodes the
// environment into a Config. Variables already set win over file values.
func Load(files ...string) (Config, error) {
	var cfg Config

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Could not load env file, continuing with existing environment variables")

			continue
		}

		log.Info().Str("file", file).Msg("Successfully loaded variables from env file into environment")
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("processing environment variables: %w", err)
	}

	return cfg, nil
}

// Get returns the process configuration, loading it on first use.
func Get() *Config {
	once.Do(func() {
		loaded, err := Load(defaultEnvFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		conf = loaded

		log.Info().Msg("Service configuration initialized successfully")
	})

	return &conf
}
