// Package fetchtest provides a scripted ports.Fetcher for tests.
package fetchtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"qiitawatch/internal/domain/ports"
)

type step struct {
	req    ports.Request
	result any
	err    error
}

// Script replays an ordered list of expected requests and canned results.
// A request that does not match the next expected one fails the test.
type Script struct {
	t     testing.TB
	mu    sync.Mutex
	steps []step
	calls int
}

var _ ports.Fetcher = (*Script)(nil)

// New creates an empty Script that verifies every step was consumed when the test ends.
func New(t testing.TB) *Script {
	s := &Script{t: t}
	t.Cleanup(s.assertDone)
	return s
}

// Expect queues a request answered with result. result must be assignable to the
// value the caller's out pointer refers to.
func (s *Script) Expect(req ports.Request, result any) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step{req: req, result: result})
	return s
}

// ExpectError queues a request answered with err.
func (s *Script) ExpectError(req ports.Request, err error) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step{req: req, err: err})
	return s
}

// Calls returns how many requests have been served.
func (s *Script) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Fetch implements ports.Fetcher.
func (s *Script) Fetch(_ context.Context, req ports.Request, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.calls
	s.calls++
	if index >= len(s.steps) {
		s.t.Errorf("fetchtest: unexpected request #%d %+v", index+1, req)
		return fmt.Errorf("fetchtest: unexpected request %s", req.URL)
	}

	want := s.steps[index]
	if !assert.Equal(s.t, normalize(want.req), normalize(req), "fetchtest: request #%d", index+1) {
		return fmt.Errorf("fetchtest: request #%d mismatch", index+1)
	}
	if want.err != nil {
		return want.err
	}
	return assign(out, want.result)
}

func (s *Script) assertDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.steps) {
		s.t.Errorf("fetchtest: %d of %d scripted requests were never made", len(s.steps)-s.calls, len(s.steps))
	}
}

func normalize(req ports.Request) ports.Request {
	if len(req.Params) == 0 {
		req.Params = nil
	}
	return req
}

func assign(out, result any) error {
	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return fmt.Errorf("fetchtest: out must be a non-nil pointer, got %T", out)
	}
	src := reflect.ValueOf(result)
	if !src.IsValid() {
		dst.Elem().Set(reflect.Zero(dst.Elem().Type()))
		return nil
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return fmt.Errorf("fetchtest: cannot assign %T to %s", result, dst.Elem().Type())
	}
	dst.Elem().Set(src)
	return nil
}
