package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qiitawatch/internal/domain/model"
)

func TestNotifierLogsTitleAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler, err := NewJSONHandler(&buf, "info")
	require.NoError(t, err)

	notifier := NewNotifier(New(slog.New(handler)))
	err = notifier.Send(context.Background(), model.Notification{
		Title: "New Qiita articles by alice",
		URL:   "https://qiita.com/alice",
		Fields: []model.NotificationField{
			{Name: "Generics", Value: "**Link:** https://qiita.com/alice/items/a1"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var head, field map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &head))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &field))
	assert.Equal(t, "New Qiita articles by alice", head["msg"])
	assert.Equal(t, "https://qiita.com/alice", head["url"])
	assert.Equal(t, "  Generics", field["msg"])
}
