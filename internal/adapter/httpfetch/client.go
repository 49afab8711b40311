package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"qiitawatch/internal/domain/ports"
)

// Client implements ports.Fetcher over HTTP GET with JSON responses.
type Client struct {
	httpClient  *http.Client
	accessToken string
	logger      ports.Logger
}

var _ ports.Fetcher = (*Client)(nil)

// New creates a Client. A non-empty accessToken is sent as a bearer token.
func New(timeout time.Duration, accessToken string, logger ports.Logger) *Client {
	return NewWithHTTPClient(&http.Client{Timeout: timeout}, accessToken, logger)
}

// NewWithHTTPClient creates a Client around an existing http.Client.
func NewWithHTTPClient(httpClient *http.Client, accessToken string, logger ports.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Fetch performs a single GET and decodes the JSON body into out.
// Decode failures wrap ports.ErrDecode and non-2xx responses return *ports.StatusError.
func (c *Client) Fetch(ctx context.Context, req ports.Request, out any) error {
	endpoint, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if len(req.Params) > 0 {
		query := endpoint.Query()
		for key, value := range req.Params {
			query.Set(key, value)
		}
		endpoint.RawQuery = query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "api response", "url", endpoint.String(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return &ports.StatusError{URL: req.URL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrDecode, err)
	}
	return nil
}
