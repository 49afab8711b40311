package ports

import "context"

// SeenStore remembers which articles have already been reported per user.
type SeenStore interface {
	// Seen reports whether any article was recorded for userID, and the recorded ids.
	Seen(ctx context.Context, userID string) (bool, map[string]struct{}, error)
	MarkSeen(ctx context.Context, userID string, articleIDs []string) error
}
