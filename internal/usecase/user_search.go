package usecase

import (
	"context"
	"sync"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

// UserLookup finds a single user by id.
type UserLookup interface {
	FetchByID(ctx context.Context, id string) (model.User, error)
}

// SearchState is one view state of the user search screen.
type SearchState struct {
	Kind ViewKind
	// Text, SearchEnabled and History are set for ViewInitial and ViewAppeared.
	Text          string
	SearchEnabled bool
	History       []string
	Destination   Destination
	Alert         alert.Case
}

// UserSearch drives the user id search screen and its search history.
type UserSearch struct {
	screen
	users  UserLookup
	terms  ports.SearchTermStore
	stream *Stream[SearchState]

	mu      sync.Mutex
	text    string
	history []string
}

// NewUserSearch creates the state machine for one appearance of the search screen.
func NewUserSearch(users UserLookup, terms ports.SearchTermStore, logger ports.Logger, opts ...Option) *UserSearch {
	return &UserSearch{
		screen: newScreen("user_search", logger, opts),
		users:  users,
		terms:  terms,
		stream: NewStream[SearchState](),
	}
}

// States returns the view states emitted by the machine.
func (s *UserSearch) States() <-chan SearchState {
	return s.stream.States()
}

// OnAppear loads the search history and shows an empty search box.
func (s *UserSearch) OnAppear(ctx context.Context) {
	s.info(ctx, "appear")
	s.stream.Emit(SearchState{Kind: ViewInitial})
	s.reloadHistory(ctx)
	s.emitAppeared()
}

// OnDisappear closes the state stream.
func (s *UserSearch) OnDisappear() {
	s.info(context.Background(), "disappear")
	s.stream.Close()
}

// DidEnterText records the search text. The search button is enabled iff it is non-empty.
func (s *UserSearch) DidEnterText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	s.emitAppeared()
}

// TappedSearch saves the text to the history, then looks the user up.
func (s *UserSearch) TappedSearch(ctx context.Context) {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()

	s.info(ctx, "search", "term", text)
	s.stream.Emit(SearchState{Kind: ViewLoading})

	if err := s.terms.Touch(ctx, text); err != nil {
		s.error(ctx, "failed to save search term", "term", text, "error", err)
	}
	s.reloadHistory(ctx)

	user, err := s.users.FetchByID(ctx, text)
	if err != nil {
		s.error(ctx, "failed to fetch user", "term", text, "error", err)
		s.stream.Emit(SearchState{Kind: ViewAlert, Alert: alert.ForSearch(err)})
		return
	}
	s.stream.Emit(SearchState{
		Kind:        ViewScreenTransition,
		Destination: Destination{Kind: DestinationUserDetail, User: user},
	})
}

// TappedCloseAlert dismisses the alert.
func (s *UserSearch) TappedCloseAlert() {
	s.emitAppeared()
}

// DeleteTerm removes term from the history.
func (s *UserSearch) DeleteTerm(ctx context.Context, term string) {
	if err := s.terms.Delete(ctx, term); err != nil {
		s.error(ctx, "failed to delete search term", "term", term, "error", err)
	}
	s.reloadHistory(ctx)
	s.emitAppeared()
}

func (s *UserSearch) reloadHistory(ctx context.Context) {
	terms, err := s.terms.All(ctx)
	if err != nil {
		s.error(ctx, "failed to load search history", "error", err)
		terms = nil
	}

	history := make([]string, 0, len(terms))
	for _, t := range terms {
		history = append(history, t.Term)
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
}

func (s *UserSearch) emitAppeared() {
	s.mu.Lock()
	state := SearchState{
		Kind:          ViewAppeared,
		Text:          s.text,
		SearchEnabled: s.text != "",
		History:       s.history,
	}
	s.mu.Unlock()
	s.stream.Emit(state)
}
