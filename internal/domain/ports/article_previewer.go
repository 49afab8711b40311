package ports

import (
	"context"

	"qiitawatch/internal/domain/model"
)

// ArticlePreviewer extracts readable text from an article page.
type ArticlePreviewer interface {
	Preview(ctx context.Context, url string) (model.Preview, error)
}
