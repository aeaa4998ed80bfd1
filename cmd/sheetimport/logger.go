package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/nao1215/sheetimport"
)

// Log output formats
const (
	logFormatConsole = "console"
	logFormatJSON    = "json"
)

// newLogger creates the progress logger. Console output is meant for
// people at a terminal; JSON output for log collectors.
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: log level: %w", sheetimport.ErrInvalidConfig, err)
	}

	switch format {
	case logFormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case logFormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("%w: unknown log format %q (want %s or %s)",
			sheetimport.ErrInvalidConfig, format, logFormatConsole, logFormatJSON)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
