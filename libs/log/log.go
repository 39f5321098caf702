package log

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// LogLevelDebug enables all messages.
	LogLevelDebug = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo = "info"
	// LogLevelError keeps only errors.
	LogLevelError = "error"
)

// Logger is what every package in this module takes for structured logging.
// Keyvals alternate keys and values, go-kit style.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})

	With(keyvals ...interface{}) Logger
}

type defaultLogger struct {
	zerolog.Logger
}

// NewLogger returns a Logger writing console-formatted output at the given
// level to w.
func NewLogger(w io.Writer, level string) (Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger()
	return &defaultLogger{Logger: zl}, nil
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return &defaultLogger{Logger: zerolog.Nop()}
}

func (l *defaultLogger) Debug(msg string, keyvals ...interface{}) {
	l.Logger.Debug().Fields(fields(keyvals)).Msg(msg)
}

func (l *defaultLogger) Info(msg string, keyvals ...interface{}) {
	l.Logger.Info().Fields(fields(keyvals)).Msg(msg)
}

func (l *defaultLogger) Error(msg string, keyvals ...interface{}) {
	l.Logger.Error().Fields(fields(keyvals)).Msg(msg)
}

func (l *defaultLogger) With(keyvals ...interface{}) Logger {
	return &defaultLogger{Logger: l.Logger.With().Fields(fields(keyvals)).Logger()}
}

// fields folds alternating keyvals into a zerolog field map. A dangling key
// is kept with a nil value rather than dropped.
func fields(keyvals []interface{}) map[string]interface{} {
	if len(keyvals) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 < len(keyvals) {
			m[key] = keyvals[i+1]
		} else {
			m[key] = nil
		}
	}
	return m
}
