package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := Get()
	t.Cleanup(func() { Set(prev) })

	buf := &bytes.Buffer{}
	Set(New(buf, Config{Level: level, Format: "json"}))
	return buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInfoAttachesContextIDs(t *testing.T) {
	buf := capture(t, "info")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithTraceID(ctx, "trace-1")
	Info(ctx, "option priced", "kind", "Call")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "option priced", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "Call", entry["kind"])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")

	Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextHelpersWithoutValues(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, TraceID(context.TODO()))
}

func TestInitFileOutput(t *testing.T) {
	prev := Get()
	t.Cleanup(func() { Set(prev) })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(Config{Level: "info", Format: "text", Output: "file", FilePath: path, MaxSize: 1}))
	Info(context.Background(), "to file")
	assert.FileExists(t, path)
}
