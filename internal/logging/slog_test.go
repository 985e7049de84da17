package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONSlog(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newJSONSlog(slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	want := []struct {
		level, msg, key string
		val             float64
	}{
		{"DEBUG", "dbg", "a", 1},
		{"INFO", "inf", "b", 2},
		{"WARN", "wrn", "c", 3},
		{"ERROR", "err", "d", 4},
	}
	for i, w := range want {
		assert.Equal(t, w.level, lines[i]["level"])
		assert.Equal(t, w.msg, lines[i]["msg"])
		assert.Equal(t, w.val, lines[i][w.key])
		assert.NotContains(t, lines[i], "request_id")
	}
}

func TestSlogLogger_BelowLevelDropped(t *testing.T) {
	log, buf := newJSONSlog(slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestSlogLogger_RequestIDFromContext(t *testing.T) {
	log, buf := newJSONSlog(slog.LevelInfo)
	ctx := WithRequestID(context.Background(), "req-1")

	log.With("module", "rest_server").Info(ctx, "http request", "status", 200)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "rest_server", lines[0]["module"])
	assert.Equal(t, float64(200), lines[0]["status"])
}

func TestSlogLogger_NilContext(t *testing.T) {
	log, buf := newJSONSlog(slog.LevelInfo)

	log.Info(nil, "ok")
	assert.Len(t, decodeLines(t, buf), 1)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "x", RequestID(WithRequestID(context.Background(), "x")))
}
