package ports

import (
	"context"

	"qiitawatch/internal/domain/model"
)

// SearchTermStore persists search history keyed by the exact term.
type SearchTermStore interface {
	// All returns every stored term, most recently used first.
	All(ctx context.Context) ([]model.SearchTerm, error)
	// Touch inserts term or bumps its last-used timestamp.
	Touch(ctx context.Context, term string) error
	Delete(ctx context.Context, term string) error
}
