package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns the diagnostics logger. Warnings are always shown;
// -v adds info and -vv debug messages.
func newLogger(w io.Writer, verbosity int, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
