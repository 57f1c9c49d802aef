package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")

	log.Info("Cache set", "key", "abc", "ttl", time.Hour, "error", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Cache set", entry["message"])
	assert.Equal(t, "abc", entry["key"])
	assert.Equal(t, "1h0m0s", entry["ttl"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		logFunc func(*Logger)
		written bool
	}{
		{name: "debug hidden at info", level: "info", logFunc: func(l *Logger) { l.Debug("x") }, written: false},
		{name: "debug shown at debug", level: "debug", logFunc: func(l *Logger) { l.Debug("x") }, written: true},
		{name: "empty level is info", level: "", logFunc: func(l *Logger) { l.Info("x") }, written: true},
		{name: "warn hidden at error", level: "error", logFunc: func(l *Logger) { l.Warn("x") }, written: false},
		{name: "error shown at warn", level: "WARN", logFunc: func(l *Logger) { l.Error("x") }, written: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.logFunc(New(&buf, tc.level))
			assert.Equal(t, tc.written, buf.Len() > 0)
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").With("component", "gateway")

	log.Info("Fetching")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gateway", entry["component"])
}

func TestLogger_NilDiscards(t *testing.T) {
	var log *Logger

	assert.NotPanics(t, func() {
		log.Info("dropped", "key", "value")
		log.With("component", "x").Error("dropped")
	})
}
