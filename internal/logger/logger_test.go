package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerRedactsAndTagsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "debug")

	ctx := WithRequestID(context.Background(), "req-1")
	log.InfoContext(ctx, "login", "username", "ops", "password", "hunter2", "token", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ops", line["username"])
	assert.Equal(t, redacted, line["password"])
	assert.Equal(t, redacted, line["token"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestPrettyLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "pretty", "info")

	log.With("authorization", "Bearer abc").Info("upstream call", "path", "/roles")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "upstream call")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "Bearer abc")
	assert.NotContains(t, out, "hidden")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, context.Background(), WithRequestID(context.Background(), ""))
}
