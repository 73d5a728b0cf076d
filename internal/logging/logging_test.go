package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	return rec
}

func TestConfigs(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.False(t, cfg.JSON)

	cfg = DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestInit(t *testing.T) {
	t.Run("text_info_hides_debug", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelInfo, Output: &buf})
		defer Init(DefaultConfig())

		DebugLog("hidden")
		Info("shown", KeyCount, 2)
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "count=2")
		assert.False(t, Debug)
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		defer Init(DefaultConfig())
		assert.NotNil(t, Logger())
	})

	t.Run("debug_sets_flag", func(t *testing.T) {
		InitDebug()
		defer Init(DefaultConfig())
		assert.True(t, Debug)
	})
}

func TestLevels(t *testing.T) {
	buf := captureJSON(t)
	ctx := context.Background()

	tests := []struct {
		level string
		log   func()
	}{
		{"INFO", func() { Info("m") }},
		{"DEBUG", func() { DebugLog("m") }},
		{"WARN", func() { Warn("m") }},
		{"ERROR", func() { Error("m") }},
		{"INFO", func() { InfoContext(ctx, "m") }},
		{"DEBUG", func() { DebugContext(ctx, "m") }},
		{"WARN", func() { WarnContext(ctx, "m") }},
		{"ERROR", func() { ErrorContext(ctx, "m") }},
	}
	for _, tt := range tests {
		buf.Reset()
		tt.log()
		assert.Equal(t, tt.level, lastRecord(t, buf)["level"])
	}
}

func TestWith(t *testing.T) {
	buf := captureJSON(t)

	With(KeyKind, "no_op").Info("added")
	assert.Equal(t, "no_op", lastRecord(t, buf)[KeyKind])

	ForProject("/work/anewcommit.json").Info("loaded", KeyIndex, 1)
	rec := lastRecord(t, buf)
	assert.Equal(t, "/work/anewcommit.json", rec[KeyProject])
	assert.Equal(t, float64(1), rec[KeyIndex])
}

func TestLogOperation(t *testing.T) {
	buf := captureJSON(t)

	LogOperation("swap", KeyIndex, 3, KeyActionID, "7")
	rec := lastRecord(t, buf)
	assert.Equal(t, "swap", rec[KeyOperation])
	assert.Equal(t, "7", rec[KeyActionID])
	assert.Equal(t, "operation", rec["msg"])
}

func TestLogMutation(t *testing.T) {
	t.Run("debug", func(t *testing.T) {
		buf := captureJSON(t)
		LogMutation("undo", 2, 5, []int{1, 3})
		rec := lastRecord(t, buf)
		assert.Equal(t, "undo", rec[KeyOperation])
		assert.Equal(t, float64(2), rec[KeySubsteps])
		assert.Equal(t, float64(5), rec[KeyCount])
		assert.Equal(t, []any{float64(1), float64(3)}, rec[KeyIndex])
	})

	t.Run("skipped_above_debug", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelInfo, JSON: true, Output: &buf})
		defer Init(DefaultConfig())
		LogMutation("redo", 1, 1, nil)
		assert.Empty(t, buf.String())
	})
}

func TestContextVariantsCarryRequestID(t *testing.T) {
	buf := captureJSON(t)
	ctx := WithRequestID(context.Background(), "req-9")

	WarnContext(ctx, "stale session")
	assert.Equal(t, "req-9", lastRecord(t, buf)[KeyRequestID])

	InfoContext(context.Background(), "plain")
	_, ok := lastRecord(t, buf)[KeyRequestID]
	assert.False(t, ok)
}

// =============================================================================
// Context Tests
// =============================================================================

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()
	assert.NotEqual(t, id1, id2)

	parsed, err := uuid.Parse(id1)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRequestIDFromContext(t *testing.T) {
	t.Run("nil_context", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(nil))
	})

	t.Run("no_request_id", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(context.Background()))
	})

	t.Run("with_request_id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "abc123")
		assert.Equal(t, "abc123", RequestIDFromContext(ctx))
	})

	t.Run("generated", func(t *testing.T) {
		assert.NotEmpty(t, RequestIDFromContext(NewRequestContext()))
	})
}

func TestLoggerFromContext(t *testing.T) {
	buf := captureJSON(t)

	LoggerFromContext(WithRequestID(context.Background(), "req-1")).Info("applied", KeyCount, 2)
	rec := lastRecord(t, buf)
	assert.Equal(t, "req-1", rec[KeyRequestID])
	assert.Equal(t, float64(2), rec[KeyCount])

	assert.NotNil(t, LoggerFromContext(context.Background()))
}
