package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestSLoggerWritesJSONWithAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler, err := NewJSONHandler(&buf, "warn")
	require.NoError(t, err)

	logger := New(slog.New(handler)).With("screen_id", "s1")
	logger.Info(context.Background(), "dropped")
	logger.Warn(context.Background(), "kept", "user_id", "u1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "s1", record["screen_id"])
	assert.Equal(t, "u1", record["user_id"])
}

func TestNilSLoggerIsSilent(t *testing.T) {
	t.Parallel()

	logger := New(nil)
	assert.NotPanics(t, func() {
		logger.With("a", 1).Error(context.Background(), "ignored")
	})
}
