// Package sysutil holds process-level helpers shared by the binaries.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel reads LOG_LEVEL. It accepts zerolog's names plus "warning", and
// falls back to info for empty or unknown input.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetupLogger points the global logger at stdout, as JSON lines or, with
// pretty, as a console stream.
func SetupLogger(level string, pretty bool) {
	SetupLoggerTo(os.Stdout, level, pretty)
}

// SetupLoggerTo is SetupLogger with an explicit sink. zerolog.Ctx on a bare
// context returns the same logger afterwards.
func SetupLoggerTo(w io.Writer, level string, pretty bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
