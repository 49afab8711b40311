package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrDecode marks a response body that could not be decoded into the requested shape.
var ErrDecode = errors.New("decode response")

// Request is a parameterized read against a single endpoint.
type Request struct {
	URL    string
	Params map[string]string
}

// Fetcher issues a read request and decodes the response into out, which must be a pointer.
type Fetcher interface {
	Fetch(ctx context.Context, req Request, out any) error
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
