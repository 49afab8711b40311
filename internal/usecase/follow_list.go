package usecase

import (
	"context"
	"sync"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/pagination"
)

// FollowSource reads pages of a user's follow graph.
type FollowSource interface {
	FetchFollowees(ctx context.Context, userID string, page int) ([]model.User, error)
	FetchFollowers(ctx context.Context, userID string, page int) ([]model.User, error)
}

// FollowKind selects which side of the follow graph a list shows.
type FollowKind int

const (
	Followees FollowKind = iota + 1
	Followers
)

func (k FollowKind) String() string {
	if k == Followers {
		return "followers"
	}
	return "followees"
}

// Title is the screen heading for the list.
func (k FollowKind) Title() string {
	if k == Followers {
		return "Followers"
	}
	return "Followees"
}

// FollowListState is one view state of a followee/follower list.
type FollowListState struct {
	Kind ViewKind
	// Users is set for ViewAppeared.
	Users []model.User
	// Fetch is set for ViewLoading.
	Fetch       FetchState
	Destination Destination
	Alert       alert.Case
}

// FollowList drives a paginated list of followees or followers of a target user.
type FollowList struct {
	screen
	kind     FollowKind
	targetID string
	source   FollowSource
	stream   *Stream[FollowListState]

	mu         sync.Mutex
	page       int
	current    []model.User
	fetchState FetchState
}

// NewFollowList creates the state machine for one appearance of a follow list.
func NewFollowList(kind FollowKind, targetID string, source FollowSource, logger ports.Logger, opts ...Option) *FollowList {
	return &FollowList{
		screen:   newScreen("follow_list", logger, opts),
		kind:     kind,
		targetID: targetID,
		source:   source,
		stream:   NewStream[FollowListState](),
		page:     1,
	}
}

// States returns the view states emitted by the machine.
func (f *FollowList) States() <-chan FollowListState {
	return f.stream.States()
}

// Kind returns which list this is.
func (f *FollowList) Kind() FollowKind {
	return f.kind
}

// TargetID returns the user whose follow graph is listed.
func (f *FollowList) TargetID() string {
	return f.targetID
}

// FetchState returns the fetch in flight or the one that failed last.
func (f *FollowList) FetchState() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchState
}

// OnAppear emits the empty initial state and loads the first page.
func (f *FollowList) OnAppear(ctx context.Context) {
	f.info(ctx, "appear", "kind", f.kind, "target_id", f.targetID)
	f.stream.Emit(FollowListState{Kind: ViewInitial})
	f.setFetch(FetchInitial)
	f.loadFirstPage(ctx)
}

// OnDisappear closes the state stream.
func (f *FollowList) OnDisappear() {
	f.info(context.Background(), "disappear")
	f.stream.Close()
}

// PullToRefresh reloads page 1 and merges it into the list.
func (f *FollowList) PullToRefresh(ctx context.Context) {
	f.info(ctx, "pull to refresh")
	f.setFetch(FetchRefresh)
	f.loadFirstPage(ctx)
}

// PushToRefresh loads the page after the last one fetched.
func (f *FollowList) PushToRefresh(ctx context.Context) {
	f.info(ctx, "push to refresh")
	f.setFetch(FetchNextPage)
	f.loadNextPage(ctx)
}

// TappedUser transitions to the detail screen of the user with id.
func (f *FollowList) TappedUser(id string) {
	ctx := context.Background()
	f.mu.Lock()
	var (
		selected model.User
		found    bool
	)
	for _, u := range f.current {
		if u.ID == id {
			selected, found = u, true
			break
		}
	}
	f.mu.Unlock()

	if !found {
		f.invariant(ctx, "tapped user is not in the list", "user_id", id)
		return
	}
	f.stream.Emit(FollowListState{
		Kind:        ViewScreenTransition,
		Destination: Destination{Kind: DestinationUserDetail, User: selected},
	})
}

// TappedRetry replays the fetch that failed.
func (f *FollowList) TappedRetry(ctx context.Context) {
	state := f.FetchState()
	f.info(ctx, "retry", "fetch_state", state)

	switch state {
	case FetchInitial, FetchRefresh:
		f.loadFirstPage(ctx)
	case FetchNextPage:
		f.loadNextPage(ctx)
	}
}

// TappedCloseAlert dismisses the alert and shows the unchanged list.
func (f *FollowList) TappedCloseAlert() {
	f.mu.Lock()
	f.fetchState = FetchNone
	users := f.current
	f.mu.Unlock()

	f.stream.Emit(FollowListState{Kind: ViewAppeared, Users: users})
}

func (f *FollowList) setFetch(state FetchState) {
	f.mu.Lock()
	f.fetchState = state
	f.mu.Unlock()
}

func (f *FollowList) loadFirstPage(ctx context.Context) {
	f.load(ctx, 1, false)
}

func (f *FollowList) loadNextPage(ctx context.Context) {
	f.mu.Lock()
	next := f.page + 1
	f.mu.Unlock()
	f.load(ctx, next, true)
}

// load emits the loading state itself, so retry goes through the same path.
func (f *FollowList) load(ctx context.Context, page int, advance bool) {
	f.stream.Emit(FollowListState{Kind: ViewLoading, Fetch: f.FetchState()})

	fetched, err := f.fetch(ctx, page)
	if err != nil {
		f.error(ctx, "failed to fetch users", "kind", f.kind, "page", page, "error", err)
		f.stream.Emit(FollowListState{Kind: ViewAlert, Alert: alert.ForFollowList(err)})
		return
	}
	f.debug(ctx, "fetched users", "kind", f.kind, "page", page, "count", len(fetched))

	f.mu.Lock()
	if advance {
		f.page = page
	}
	f.current = pagination.Users(f.current, fetched)
	f.fetchState = FetchNone
	users := f.current
	f.mu.Unlock()

	f.stream.Emit(FollowListState{Kind: ViewAppeared, Users: users})
}

func (f *FollowList) fetch(ctx context.Context, page int) ([]model.User, error) {
	if f.kind == Followers {
		return f.source.FetchFollowers(ctx, f.targetID, page)
	}
	return f.source.FetchFollowees(ctx, f.targetID, page)
}
