package qiitaapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindClient is a transport or decoding failure.
	KindClient Kind = iota + 1
	// KindURLConstruction means the endpoint could not be built from the supplied id.
	KindURLConstruction
	// KindNotFound means a single-user lookup matched nobody.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindURLConstruction:
		return "url_construction"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	ErrClient          = errors.New("qiita api client error")
	ErrURLConstruction = errors.New("qiita api url construction error")
	ErrNotFound        = errors.New("qiita api user not found")
)

func (k Kind) sentinel() error {
	switch k {
	case KindClient:
		return ErrClient
	case KindURLConstruction:
		return ErrURLConstruction
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error is a classified API failure. It matches its Kind's sentinel with errors.Is
// and exposes the underlying failure, if any, through Unwrap.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the classification carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

func clientError(reason string, err error) error {
	return &Error{Kind: KindClient, Reason: reason, Err: err}
}

func urlConstructionError(rawURL string) error {
	return &Error{Kind: KindURLConstruction, Reason: fmt.Sprintf("failed to build url %q", rawURL)}
}
