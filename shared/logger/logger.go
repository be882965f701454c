package logger

import (
	"io"
	"os"
	"time"

	"rento/config"
	"rento/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs the global zerolog logger. Development gets a human readable console
// writer, every other environment logs JSON lines to stdout.
func InitLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var output io.Writer = os.Stdout
	if env == "" || env == constant.ServerEnvDevelopment {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	log.Logger = log.Output(output).With().Caller().Logger()
	log.Trace().Str("env", env).Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. Unset or unknown levels fall back to info.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("configured", config.Server.LogLevel).Str("loglevel", defaultLevel.String()).Msg("Unusable log level, using default.")

		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("loglevel", level.String()).Msg("Log level set.")
}
