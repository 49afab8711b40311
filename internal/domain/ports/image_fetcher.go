package ports

import "context"

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
