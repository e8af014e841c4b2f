package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_JSONRecord(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions("planner", Options{Level: zerolog.DebugLevel, Out: &buf})
	l.Debugw("selection funnel", map[string]any{"nearby": 2, "id": "abc"})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "evswap", rec["service"])
	assert.Equal(t, "planner", rec["component"])
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, "selection funnel", rec["message"])
	assert.EqualValues(t, 2, rec["nearby"])
	assert.Equal(t, "abc", rec["id"])
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions("http", Options{Level: zerolog.WarnLevel, Out: &buf})
	l.Debugf("hidden %d", 1)
	l.Infof("hidden")
	l.Warnf("route provider slow")
	l.Errorf("source down: %s", "csv")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "route provider slow")
	assert.Contains(t, lines[1], "source down: csv")
}

func TestZerologLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions("cli", Options{Console: true, Level: zerolog.InfoLevel, Out: &buf})
	l.Infof("plan %s", "ready")
	assert.Contains(t, buf.String(), "plan ready")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "DEV")
	t.Setenv("LOG_LEVEL", " WARN ")
	opts := OptionsFromEnv()
	assert.True(t, opts.Console)
	assert.Equal(t, zerolog.WarnLevel, opts.Level)

	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "verbose")
	opts = OptionsFromEnv()
	assert.False(t, opts.Console)
	assert.Equal(t, zerolog.DebugLevel, opts.Level)
}
