// Package logging configures the process-wide zerolog logger used by sekret.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for the given verbosity. Output goes to
// stderr through a console writer; noColor disables ANSI colouring.
func Setup(verbosity int, noColor bool) {
	SetupWriter(os.Stderr, verbosity, noColor)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbosity int, noColor bool) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a contextualized logger with the given component name.
// The logger is derived from the global logger at call time, so callers
// should not hold on to it across Setup calls.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
