package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a Store backed by a temporary SQLite database with a controllable clock.
func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func terms(t *testing.T, s *Store) []string {
	t.Helper()
	all, err := s.All(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(all))
	for _, term := range all {
		out = append(out, term.Term)
	}
	return out
}

func TestNewInvalidPath(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.Error(t, err)
}

func TestTouchInsertsAndBumps(t *testing.T) {
	t.Parallel()

	s, now := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Touch(ctx, "alice"))
	*now = now.Add(time.Minute)
	require.NoError(t, s.Touch(ctx, "bob"))
	assert.Equal(t, []string{"bob", "alice"}, terms(t, s))

	*now = now.Add(time.Minute)
	require.NoError(t, s.Touch(ctx, "alice"))
	assert.Equal(t, []string{"alice", "bob"}, terms(t, s))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, now.Unix(), all[0].LastUsed)
}

func TestTouchSameSecondKeepsRecency(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, term := range []string{"a", "b", "c", "a"} {
		require.NoError(t, s.Touch(ctx, term))
	}
	assert.Equal(t, []string{"a", "c", "b"}, terms(t, s))
}

func TestTouchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	require.NoError(t, s.Touch(context.Background(), "Qiita"))
	require.NoError(t, s.Touch(context.Background(), "qiita"))
	assert.Len(t, terms(t, s), 2)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Touch(ctx, "a"))
	require.NoError(t, s.Touch(ctx, "b"))

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "missing"))
	assert.Equal(t, []string{"b"}, terms(t, s))
}

func TestSeenAndMarkSeen(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	seeded, ids, err := s.Seen(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Empty(t, ids)

	require.NoError(t, s.MarkSeen(ctx, "alice", nil))
	seeded, ids, err = s.Seen(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Empty(t, ids)

	require.NoError(t, s.MarkSeen(ctx, "alice", []string{"a1", "a2"}))
	require.NoError(t, s.MarkSeen(ctx, "alice", []string{"a2", "a3"}))
	_, ids, err = s.Seen(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a1": {}, "a2": {}, "a3": {}}, ids)

	seeded, _, err = s.Seen(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, seeded)
}
