package tui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qiitawatch/internal/adapter/logging"
	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/qiitaapi"
	"qiitawatch/internal/usecase"
)

type stubUsers struct {
	users     map[string]model.User
	followees []model.User
}

func (s stubUsers) FetchByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, &qiitaapi.Error{Kind: qiitaapi.KindNotFound, Reason: "no such user"}
	}
	return u, nil
}

func (s stubUsers) FetchFollowees(context.Context, string, int) ([]model.User, error) {
	return s.followees, nil
}

func (s stubUsers) FetchFollowers(context.Context, string, int) ([]model.User, error) {
	return nil, nil
}

type stubArticles struct {
	articles []model.Article
	err      error
}

func (s stubArticles) FetchByUserID(context.Context, string, int) ([]model.Article, error) {
	return s.articles, s.err
}

type memoryTerms struct {
	mu    sync.Mutex
	terms []string
}

func (m *memoryTerms) All(context.Context) ([]model.SearchTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SearchTerm, 0, len(m.terms))
	for _, t := range m.terms {
		out = append(out, model.SearchTerm{Term: t})
	}
	return out, nil
}

func (m *memoryTerms) Touch(_ context.Context, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = append([]string{term}, m.terms...)
	return nil
}

func (m *memoryTerms) Delete(_ context.Context, term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.terms[:0]
	for _, t := range m.terms {
		if t != term {
			kept = append(kept, t)
		}
	}
	m.terms = kept
	return nil
}

type stubImages struct{ data []byte }

func (s stubImages) Download(context.Context, string) ([]byte, error) {
	if s.data == nil {
		return nil, errors.New("boom")
	}
	return s.data, nil
}

type stubPreviews struct {
	preview model.Preview
	err     error
}

func (s stubPreviews) Preview(context.Context, string) (model.Preview, error) {
	return s.preview, s.err
}

var alice = model.User{
	ID:              "alice",
	Name:            "Alice",
	Description:     "writes Go",
	FolloweesCount:  3,
	FollowersCount:  5,
	ProfileImageURL: "https://example.com/alice.png",
}

func testFactory(terms ...string) *factory {
	return &factory{
		ctx: context.Background(),
		deps: Deps{
			Users: stubUsers{
				users:     map[string]model.User{"alice": alice},
				followees: []model.User{{ID: "bob", Name: "Bob"}},
			},
			Articles: stubArticles{articles: []model.Article{{
				ID:        "a1",
				Title:     "Generics in practice",
				URL:       "https://qiita.com/alice/items/a1",
				CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			}}},
			Terms:    &memoryTerms{terms: terms},
			Images:   stubImages{},
			Previews: stubPreviews{preview: model.Preview{Title: "Generics in practice", Text: "body text"}},
			Logger:   logging.New(nil),
		},
	}
}

func next[S any](t *testing.T, ch <-chan S) stateMsg[S] {
	t.Helper()
	select {
	case state, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return stateMsg[S]{state: state, ch: ch}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
	}
	return stateMsg[S]{}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSearchScreenEnablesSearchOnlyWithText(t *testing.T) {
	f := testFactory()
	s := f.newSearch()
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Nil(t, s.handleKey(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "Enter a user id to search")

	s.handleKey(keyRunes("a"))
	state := next(t, s.machine.States())
	assert.Equal(t, "a", state.state.Text)
	assert.True(t, state.state.SearchEnabled)
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "[enter] search")
	assert.NotNil(t, s.handleKey(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestSearchScreenPicksHistoryTerm(t *testing.T) {
	f := testFactory()
	s := f.newSearch()

	s.Update(stateMsg[usecase.SearchState]{
		state: usecase.SearchState{Kind: usecase.ViewAppeared, History: []string{"alice", "bob"}},
		ch:    s.machine.States(),
	})
	view := ansi.Strip(s.View(80, 20))
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "bob")

	s.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	s.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, s.cursor)

	s.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "bob", s.input.Value())
	assert.Equal(t, -1, s.cursor)

	state := next(t, s.machine.States())
	assert.Equal(t, "bob", state.state.Text)
}

func TestSearchScreenTransitionPushesUserDetail(t *testing.T) {
	f := testFactory()
	s := f.newSearch()

	s.handleKey(keyRunes("alice"))
	next(t, s.machine.States())

	cmd := s.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	loading := next(t, s.machine.States())
	s.Update(loading)
	assert.True(t, s.loading)
	assert.Nil(t, s.handleKey(keyRunes("x")), "keys are ignored while loading")

	_, nav := s.Update(next(t, s.machine.States()))
	detail, ok := nav.push.(*detailScreen)
	require.True(t, ok)
	assert.Equal(t, "alice", detail.Title())
	assert.False(t, s.loading)
	assert.Equal(t, []string{"alice"}, f.deps.Terms.(*memoryTerms).terms)
}

func TestSearchScreenShowsAndClosesAlert(t *testing.T) {
	f := testFactory()
	s := f.newSearch()

	s.Update(stateMsg[usecase.SearchState]{
		state: usecase.SearchState{Kind: usecase.ViewAlert, Alert: alert.NoHitUser},
		ch:    s.machine.States(),
	})
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "User not found")

	s.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	closed := next(t, s.machine.States())
	assert.Equal(t, usecase.ViewAppeared, closed.state.Kind)

	s.Update(closed)
	assert.NotContains(t, ansi.Strip(s.View(80, 20)), "User not found")
}

func TestDetailScreenShowsArticlesAndOpensPreview(t *testing.T) {
	f := testFactory()
	s := f.newDetail(alice)
	ch := s.machine.States()

	s.machine.OnAppear(context.Background())
	s.Update(next(t, ch))
	loading := next(t, ch)
	s.Update(loading)
	assert.Equal(t, usecase.FetchInitial, s.loading)
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "Loading…")

	s.Update(next(t, ch))
	view := ansi.Strip(s.View(80, 20))
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "3 followees  5 followers")
	assert.Contains(t, view, "Generics in practice")

	cmd, nav := s.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Nil(t, nav.push)

	_, nav = s.Update(next(t, ch))
	preview, ok := nav.push.(*previewScreen)
	require.True(t, ok)
	assert.Equal(t, "https://qiita.com/alice/items/a1", preview.url)
}

func TestDetailScreenFollowKeysPushFollowList(t *testing.T) {
	f := testFactory()
	s := f.newDetail(alice)
	ch := s.machine.States()

	s.handleKey(keyRunes("F"))
	_, nav := s.Update(next(t, ch))
	list, ok := nav.push.(*followScreen)
	require.True(t, ok)
	assert.Equal(t, usecase.Followers, list.machine.Kind())
	assert.Equal(t, "alice", list.machine.TargetID())
}

func TestDetailScreenRetryOffersOnlyForClientErrors(t *testing.T) {
	f := testFactory()
	f.deps.Articles = stubArticles{err: &qiitaapi.Error{Kind: qiitaapi.KindClient, Reason: "timeout"}}
	s := f.newDetail(alice)
	ch := s.machine.States()

	s.machine.OnAppear(context.Background())
	for range 3 {
		s.Update(next(t, ch))
	}
	require.Equal(t, "Network error", s.alert.Title())
	assert.Contains(t, ansi.Strip(s.Help()), "retry")

	cmd, _ := s.handleKey(keyRunes("y"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, usecase.ViewLoading, next(t, ch).state.Kind)
	assert.Equal(t, usecase.ViewAlert, next(t, ch).state.Kind)
}

func TestDetailScreenBackPops(t *testing.T) {
	s := testFactory().newDetail(alice)
	_, nav := s.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, nav.pop)
}

func TestIconLabel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 3))))

	assert.Equal(t, "[icon …]", iconLabel(usecase.ImageState{Kind: usecase.ViewLoading}))
	assert.Equal(t, "[no icon]", iconLabel(usecase.ImageState{Kind: usecase.ViewAppeared}))
	assert.Equal(t, "[icon 2x3 png]", iconLabel(usecase.ImageState{Kind: usecase.ViewAppeared, Data: buf.Bytes()}))
	assert.Equal(t, "[icon 4 bytes]", iconLabel(usecase.ImageState{Kind: usecase.ViewAppeared, Data: []byte("nope")}))
}

func TestFollowScreenTapPushesUserDetail(t *testing.T) {
	f := testFactory()
	s := f.newFollowList(usecase.Followees, "alice")
	ch := s.machine.States()

	s.machine.OnAppear(context.Background())
	for range 3 {
		s.Update(next(t, ch))
	}
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "bob")

	s.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	_, nav := s.Update(next(t, ch))
	detail, ok := nav.push.(*detailScreen)
	require.True(t, ok)
	assert.Equal(t, "bob", detail.user.ID)
}

func TestPreviewScreenRendersText(t *testing.T) {
	f := testFactory()
	s := f.newPreview("https://qiita.com/alice/items/a1")
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "Loading article…")

	s.Update(s.Init()())
	assert.Equal(t, "Generics in practice", s.Title())
	assert.Contains(t, ansi.Strip(s.View(80, 20)), "body text")

	f.deps.Previews = stubPreviews{err: errors.New("boom")}
	failed := f.newPreview("https://qiita.com/x")
	failed.Update(failed.Init()())
	assert.Contains(t, ansi.Strip(failed.View(80, 20)), "Could not load a preview")
}

func TestModelDrainsStatesOfPoppedScreens(t *testing.T) {
	m := New(context.Background(), testFactory().deps)
	ch := make(chan usecase.UserDetailState)

	_, cmd := m.Update(stateMsg[usecase.UserDetailState]{screen: 99, ch: ch})
	assert.NotNil(t, cmd, "an unknown screen keeps draining")

	_, cmd = m.Update(stateMsg[usecase.UserDetailState]{screen: 99, closed: true, ch: ch})
	assert.Nil(t, cmd)
}

func TestModelPushAndPop(t *testing.T) {
	m := New(context.Background(), testFactory().deps)
	root := m.top()

	updated, _ := m.navigate(nil, navigation{push: m.factory.newDetail(alice)})
	m = updated.(Model)
	require.Len(t, m.stack, 2)
	assert.Contains(t, ansi.Strip(m.View()), "Search › alice")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	require.Len(t, m.stack, 1)
	assert.Same(t, root, m.top())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestListScreensBlockSecondFetchBeforeLoadingArrives(t *testing.T) {
	f := testFactory()
	detail := f.newDetail(alice)

	cmd, _ := detail.handleKey(keyRunes("r"))
	assert.NotNil(t, cmd)
	assert.Equal(t, usecase.FetchRefresh, detail.loading)
	cmd, _ = detail.handleKey(keyRunes("n"))
	assert.Nil(t, cmd)
	cmd, _ = detail.handleKey(keyRunes("r"))
	assert.Nil(t, cmd)

	list := f.newFollowList(usecase.Followees, "alice")
	cmd, _ = list.handleKey(keyRunes("n"))
	assert.NotNil(t, cmd)
	assert.Equal(t, usecase.FetchNextPage, list.loading)
	cmd, _ = list.handleKey(keyRunes("r"))
	assert.Nil(t, cmd)

	search := f.newSearch()
	search.handleKey(keyRunes("alice"))
	assert.NotNil(t, search.handleKey(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Nil(t, search.handleKey(tea.KeyMsg{Type: tea.KeyEnter}))
}
