package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"qiitawatch/internal/domain/ports"
)

const maxImageBytes = 5 << 20

// Downloader fetches image bytes over HTTP.
type Downloader struct {
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.ImageFetcher = (*Downloader)(nil)

// New creates a Downloader with the supplied timeout.
func New(timeout time.Duration, logger ports.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Download returns the body of url. Bodies larger than 5 MiB are rejected.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}

	d.logger.Debug(ctx, "image downloaded", "url", url, "bytes", len(data))
	return data, nil
}
