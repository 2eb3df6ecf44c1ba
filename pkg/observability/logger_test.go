package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestKey struct{}

func requestAttrs(ctx context.Context) []slog.Attr {
	if id, ok := ctx.Value(requestKey{}).(string); ok {
		return []slog.Attr{slog.String("correlation_id", id)}
	}
	return nil
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	buf.Reset()
	return entry
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:          slog.LevelInfo,
		Format:         LogFormatJSON,
		Output:         &buf,
		ServiceName:    "todo-api",
		ServiceVersion: "1.2.3",
		ContextAttrs:   requestAttrs,
	})

	logger.Info("plain", "key", "value")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "plain", entry["msg"])
	assert.Equal(t, "todo-api", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "value", entry["key"])
	assert.NotContains(t, entry, "correlation_id")

	ctx := context.WithValue(context.Background(), requestKey{}, "abc")
	logger.With("component", "store").InfoContext(ctx, "scoped")
	entry = decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["correlation_id"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "todo-api", entry["service"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Group(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf, ServiceName: "todo"})

	logger.WithGroup("req").Info("grouped", "id", 1)
	entry := decodeLine(t, &buf)
	group, ok := entry["req"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), group["id"])
}
