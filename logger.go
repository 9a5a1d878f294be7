package main

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the logging surface used across the app.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

type zerologLogger struct {
	log zerolog.Logger
}

// NewLogger writes human readable logs to stderr. Every line carries the component and
// a per-process run id. Debug output is only emitted when verbose is set.
func NewLogger(component string, verbose bool) Logger {
	return newZerologLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, component, verbose)
}

func newZerologLogger(w io.Writer, component string, verbose bool) Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	z := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", component).
		Str("run", runID).
		Logger()
	return &zerologLogger{log: z}
}

var runID = uuid.NewString()

func (l *zerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
