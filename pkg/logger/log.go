// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human readable logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()
}

// NewJSON returns a logger writing one JSON object per event to w.
func NewJSON(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel is zerolog.ParseLevel where the empty string means info.
func ParseLevel(value string) (zerolog.Level, error) {
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", value, err)
	}
	return level, nil
}

// Printf adapts the logger to a printf-style reporter, logging at debug
// level.
func Printf(logger zerolog.Logger) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		logger.Debug().Msgf(format, args...)
	}
}
