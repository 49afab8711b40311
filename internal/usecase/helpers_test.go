package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qiitawatch/internal/domain/model"
)

func receive[S any](t *testing.T, ch <-chan S) S {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
	}
	var zero S
	return zero
}

func drain[S any](t *testing.T, ch <-chan S) []S {
	t.Helper()
	var rest []S
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return rest
			}
			rest = append(rest, s)
		case <-time.After(2 * time.Second):
			t.Fatal("stream was not closed")
			return rest
		}
	}
}

type recordLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordLogger) Debug(context.Context, string, ...any) {}
func (l *recordLogger) Info(context.Context, string, ...any)  {}
func (l *recordLogger) Warn(context.Context, string, ...any)  {}

func (l *recordLogger) Error(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprint(append([]any{msg}, args...)...))
}

func (l *recordLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

var baseTime = time.Date(2024, 11, 16, 12, 0, 0, 0, time.UTC)

func testArticle(id string, hoursAfterBase int) model.Article {
	return model.Article{
		ID:        id,
		Title:     "title " + id,
		CreatedAt: baseTime.Add(time.Duration(hoursAfterBase) * time.Hour),
		URL:       "https://qiita.com/test/items/" + id,
	}
}

func articleIDs(articles []model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func userIDs(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

type memoryTerms struct {
	mu      sync.Mutex
	now     int64
	terms   map[string]int64
	failAll error
	touched []string
}

func newMemoryTerms(terms ...string) *memoryTerms {
	m := &memoryTerms{terms: map[string]int64{}}
	for _, term := range terms {
		m.now++
		m.terms[term] = m.now
	}
	return m
}

func (m *memoryTerms) All(context.Context) ([]model.SearchTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]model.SearchTerm, 0, len(m.terms))
	for term, ts := range m.terms {
		out = append(out, model.SearchTerm{Term: term, LastUsed: ts})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].LastUsed > out[j-1].LastUsed; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *memoryTerms) Touch(_ context.Context, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now++
	m.terms[term] = m.now
	m.touched = append(m.touched, term)
	return nil
}

func (m *memoryTerms) Delete(_ context.Context, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.terms, term)
	return nil
}
