// Package logger is a small leveled, key/value logger backed by zerolog.
//
// Calls take a message followed by alternating keys and values:
//
//	log.Info("Cache hit", "key", key, "ttl", ttl)
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// A nil *Logger discards everything.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger writes JSON lines to stdout at the given level.
// Unknown or empty levels fall back to info.
func NewLogger(level string) *Logger {
	return New(os.Stdout, level)
}

func New(w io.Writer, level string) *Logger {
	zl := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{zl: zl}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger that adds the given key/value pairs to every entry.
func (l *Logger) With(keyvals ...any) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{zl: l.zl.With().Fields(keyvals).Logger()}
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Fields(normalize(keyvals)).Msg(msg)
}

func (l *Logger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.zl.Info().Fields(normalize(keyvals)).Msg(msg)
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.zl.Warn().Fields(normalize(keyvals)).Msg(msg)
}

func (l *Logger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.zl.Error().Fields(normalize(keyvals)).Msg(msg)
}

// normalize renders durations as strings so they read the same in every sink.
func normalize(keyvals []any) []any {
	for i := 1; i < len(keyvals); i += 2 {
		if d, ok := keyvals[i].(time.Duration); ok {
			keyvals[i] = d.String()
		}
	}
	return keyvals
}
