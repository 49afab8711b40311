package usecase

import (
	"context"
	"net/url"
	"sync"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/pagination"
)

// ArticleSource reads pages of a user's articles.
type ArticleSource interface {
	FetchByUserID(ctx context.Context, userID string, page int) ([]model.Article, error)
}

// DestinationKind names the screen a transition leads to.
type DestinationKind int

const (
	DestinationArticle DestinationKind = iota + 1
	DestinationFollowees
	DestinationFollowers
	DestinationUserDetail
)

// Destination is the target of a screen transition.
type Destination struct {
	Kind DestinationKind
	// URL is set for DestinationArticle.
	URL string
	// UserID is set for DestinationFollowees and DestinationFollowers.
	UserID string
	// User is set for DestinationUserDetail.
	User model.User
}

// UserDetailState is one view state of the user detail screen.
type UserDetailState struct {
	Kind ViewKind
	// User is set for ViewInitial and ViewAppeared.
	User model.User
	// Articles is set for ViewAppeared.
	Articles []model.Article
	// Fetch is set for ViewLoading.
	Fetch       FetchState
	Destination Destination
	Alert       alert.Case
}

// UserDetail drives a user's profile and paginated article list.
type UserDetail struct {
	screen
	user     model.User
	articles ArticleSource
	stream   *Stream[UserDetailState]

	mu         sync.Mutex
	page       int
	current    []model.Article
	fetchState FetchState
}

// NewUserDetail creates the state machine for one appearance of user's detail screen.
func NewUserDetail(user model.User, articles ArticleSource, logger ports.Logger, opts ...Option) *UserDetail {
	return &UserDetail{
		screen:   newScreen("user_detail", logger, opts),
		user:     user,
		articles: articles,
		stream:   NewStream[UserDetailState](),
		page:     1,
	}
}

// States returns the view states emitted by the machine.
func (d *UserDetail) States() <-chan UserDetailState {
	return d.stream.States()
}

// User returns the user this screen shows.
func (d *UserDetail) User() model.User {
	return d.user
}

// FetchState returns the fetch in flight or the one that failed last.
func (d *UserDetail) FetchState() FetchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetchState
}

// OnAppear shows the user and loads the first page of articles.
func (d *UserDetail) OnAppear(ctx context.Context) {
	d.info(ctx, "appear", "user_id", d.user.ID)
	d.stream.Emit(UserDetailState{Kind: ViewInitial, User: d.user})
	d.setFetch(FetchInitial)
	d.loadFirstPage(ctx)
}

// OnDisappear closes the state stream.
func (d *UserDetail) OnDisappear() {
	d.info(context.Background(), "disappear")
	d.stream.Close()
}

// PullToRefresh reloads page 1 and merges it into the list.
func (d *UserDetail) PullToRefresh(ctx context.Context) {
	d.info(ctx, "pull to refresh")
	d.setFetch(FetchRefresh)
	d.loadFirstPage(ctx)
}

// PushToRefresh loads the page after the last one fetched.
func (d *UserDetail) PushToRefresh(ctx context.Context) {
	d.info(ctx, "push to refresh")
	d.setFetch(FetchNextPage)
	d.loadNextPage(ctx)
}

// TappedArticle transitions to the article with id, or alerts when its URL cannot be opened.
func (d *UserDetail) TappedArticle(id string) {
	ctx := context.Background()
	d.mu.Lock()
	var (
		selected model.Article
		found    bool
	)
	for _, a := range d.current {
		if a.ID == id {
			selected, found = a, true
			break
		}
	}
	d.mu.Unlock()

	if !found {
		d.invariant(ctx, "tapped article is not in the list", "article_id", id)
		return
	}

	if !openableURL(selected.URL) {
		d.warn(ctx, "article url cannot be opened", "article_id", id, "url", selected.URL)
		d.stream.Emit(UserDetailState{Kind: ViewAlert, Alert: alert.ForInvalidArticleURL()})
		return
	}
	d.info(ctx, "open article", "article_id", id)
	d.stream.Emit(UserDetailState{
		Kind:        ViewScreenTransition,
		Destination: Destination{Kind: DestinationArticle, URL: selected.URL},
	})
}

// TappedFollowees transitions to the list of users this user follows.
func (d *UserDetail) TappedFollowees() {
	d.stream.Emit(UserDetailState{
		Kind:        ViewScreenTransition,
		Destination: Destination{Kind: DestinationFollowees, UserID: d.user.ID},
	})
}

// TappedFollowers transitions to the list of users following this user.
func (d *UserDetail) TappedFollowers() {
	d.stream.Emit(UserDetailState{
		Kind:        ViewScreenTransition,
		Destination: Destination{Kind: DestinationFollowers, UserID: d.user.ID},
	})
}

// TappedRetry replays the fetch that failed.
func (d *UserDetail) TappedRetry(ctx context.Context) {
	state := d.FetchState()
	d.info(ctx, "retry", "fetch_state", state)

	switch state {
	case FetchInitial, FetchRefresh:
		d.loadFirstPage(ctx)
	case FetchNextPage:
		d.loadNextPage(ctx)
	}
}

// TappedCloseAlert dismisses the alert and shows the unchanged list.
func (d *UserDetail) TappedCloseAlert() {
	d.mu.Lock()
	d.fetchState = FetchNone
	articles := d.current
	d.mu.Unlock()

	d.stream.Emit(UserDetailState{Kind: ViewAppeared, User: d.user, Articles: articles})
}

func (d *UserDetail) setFetch(state FetchState) {
	d.mu.Lock()
	d.fetchState = state
	d.mu.Unlock()
}

func (d *UserDetail) loadFirstPage(ctx context.Context) {
	d.load(ctx, 1, false)
}

func (d *UserDetail) loadNextPage(ctx context.Context) {
	d.mu.Lock()
	next := d.page + 1
	d.mu.Unlock()
	d.load(ctx, next, true)
}

// load emits the loading state itself, so retry goes through the same path.
func (d *UserDetail) load(ctx context.Context, page int, advance bool) {
	d.stream.Emit(UserDetailState{Kind: ViewLoading, Fetch: d.FetchState()})

	fetched, err := d.articles.FetchByUserID(ctx, d.user.ID, page)
	if err != nil {
		d.error(ctx, "failed to fetch articles", "page", page, "error", err)
		d.stream.Emit(UserDetailState{Kind: ViewAlert, Alert: alert.ForUserDetail(err)})
		return
	}
	d.debug(ctx, "fetched articles", "page", page, "count", len(fetched))

	d.mu.Lock()
	if advance {
		d.page = page
	}
	d.current = pagination.Articles(d.current, fetched)
	d.fetchState = FetchNone
	articles := d.current
	d.mu.Unlock()

	d.stream.Emit(UserDetailState{Kind: ViewAppeared, User: d.user, Articles: articles})
}

// openableURL reports whether raw can be handed to a browser: it must parse and be
// absolute with a host. Relative paths such as "/alice/items/1" are rejected.
func openableURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}
