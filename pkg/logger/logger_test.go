package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: InfoLevel, Format: "json", Service: "test-service", Output: &buf})

	log.Info("test message", StringField("test_key", "test_value"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "test-service", entries[0]["service"])
	assert.Equal(t, "test_value", entries[0]["test_key"])
	assert.Equal(t, "info", entries[0]["level"])
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: WarnLevel, Output: &buf})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warning", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestLoggerWithFieldsIsImmutable(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Output: &buf})
	child := base.WithFields(StringField("intent", "getPriceIntent"))

	base.Info("from base")
	child.Info("from child")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0], "intent")
	assert.Equal(t, "getPriceIntent", entries[1]["intent"])
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, LogField{Key: "n", Value: "42"}, IntField("n", 42))
	assert.Equal(t, LogField{Key: "ok", Value: "true"}, BoolField("ok", true))
	assert.Equal(t, LogField{Key: "d", Value: "1.5s"}, DurationField("d", 1500*time.Millisecond))
	assert.Equal(t, LogField{Key: "error", Value: "boom"}, ErrorField(errors.New("boom")))
	assert.Equal(t, LogField{Key: "error", Value: "<nil>"}, ErrorField(nil))
	assert.Equal(t, "3.25", Field("f", 3.25).Value)
	assert.Equal(t, "[a b]", Field("s", []string{"a", "b"}).Value)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestCorrelationIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCorrelationIDFromContext(ctx))

	ctx, id := EnsureCorrelationID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, GetCorrelationIDFromContext(ctx))

	// existing ID is kept
	_, again := EnsureCorrelationID(ctx)
	assert.Equal(t, id, again)

	var buf bytes.Buffer
	GetLoggerFromContext(ctx, NewLogger(Config{Output: &buf})).Info("hello")
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0][CorrelationIDFieldKey])
}
