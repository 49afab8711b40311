package tui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/usecase"
)

var listKeys = struct {
	Up, Down, Open, Refresh, More, Followees, Followers, Back key.Binding
}{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	More:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	Followees: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "followees")),
	Followers: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "followers")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
}

type detailScreen struct {
	id      int
	f       *factory
	machine *usecase.UserDetail
	image   *usecase.AsyncImage

	user     model.User
	articles []model.Article
	cursor   int
	loading  usecase.FetchState
	alert    alert.Case
	icon     string
}

func newDetailScreen(f *factory, machine *usecase.UserDetail, img *usecase.AsyncImage) *detailScreen {
	return &detailScreen{
		id:      f.nextID(),
		f:       f,
		machine: machine,
		image:   img,
		user:    machine.User(),
	}
}

func (s *detailScreen) ID() int       { return s.id }
func (s *detailScreen) Title() string { return s.user.ID }

func (s *detailScreen) Init() tea.Cmd {
	return tea.Batch(
		waitFor(s.id, s.machine.States()),
		waitFor(s.id, s.image.States()),
		s.f.run(s.machine.OnAppear),
		s.f.run(s.image.Load),
	)
}

func (s *detailScreen) Close() {
	s.machine.OnDisappear()
	s.image.Close()
}

func (s *detailScreen) Update(msg tea.Msg) (tea.Cmd, navigation) {
	switch msg := msg.(type) {
	case stateMsg[usecase.UserDetailState]:
		return s.apply(msg)
	case stateMsg[usecase.ImageState]:
		if msg.closed {
			return nil, navigation{}
		}
		s.icon = iconLabel(msg.state)
		return waitFor(s.id, msg.ch), navigation{}
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil, navigation{}
}

func (s *detailScreen) apply(msg stateMsg[usecase.UserDetailState]) (tea.Cmd, navigation) {
	if msg.closed {
		return nil, navigation{}
	}
	next := waitFor(s.id, msg.ch)

	state := msg.state
	switch state.Kind {
	case usecase.ViewInitial:
		s.user = state.User
	case usecase.ViewAppeared:
		s.user = state.User
		s.articles = state.Articles
		s.loading = usecase.FetchNone
		s.alert = 0
		s.cursor = clamp(s.cursor, 0, max(len(s.articles)-1, 0))
	case usecase.ViewLoading:
		s.loading = state.Fetch
	case usecase.ViewAlert:
		s.loading = usecase.FetchNone
		s.alert = state.Alert
	case usecase.ViewScreenTransition:
		switch dest := state.Destination; dest.Kind {
		case usecase.DestinationArticle:
			return next, navigation{push: s.f.newPreview(dest.URL)}
		case usecase.DestinationFollowees:
			return next, navigation{push: s.f.newFollowList(usecase.Followees, dest.UserID)}
		case usecase.DestinationFollowers:
			return next, navigation{push: s.f.newFollowList(usecase.Followers, dest.UserID)}
		}
	}
	return next, navigation{}
}

func (s *detailScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, navigation) {
	if s.alert != 0 {
		switch {
		case key.Matches(msg, alertKeys.Close):
			s.machine.TappedCloseAlert()
		case key.Matches(msg, alertKeys.Retry) && s.alert.HasRetry():
			s.alert = 0
			s.loading = s.machine.FetchState()
			return s.f.run(s.machine.TappedRetry), navigation{}
		}
		return nil, navigation{}
	}
	if key.Matches(msg, listKeys.Back) {
		return nil, navigation{pop: true}
	}
	if s.loading != usecase.FetchNone {
		return nil, navigation{}
	}

	switch {
	case key.Matches(msg, listKeys.Up):
		s.cursor = clamp(s.cursor-1, 0, max(len(s.articles)-1, 0))
	case key.Matches(msg, listKeys.Down):
		s.cursor = clamp(s.cursor+1, 0, max(len(s.articles)-1, 0))
	case key.Matches(msg, listKeys.Open):
		if len(s.articles) > 0 {
			s.machine.TappedArticle(s.articles[s.cursor].ID)
		}
	case key.Matches(msg, listKeys.Refresh):
		s.loading = usecase.FetchRefresh
		return s.f.run(s.machine.PullToRefresh), navigation{}
	case key.Matches(msg, listKeys.More):
		s.loading = usecase.FetchNextPage
		return s.f.run(s.machine.PushToRefresh), navigation{}
	case key.Matches(msg, listKeys.Followees):
		s.machine.TappedFollowees()
	case key.Matches(msg, listKeys.Followers):
		s.machine.TappedFollowers()
	}
	return nil, navigation{}
}

func (s *detailScreen) View(width, height int) string {
	if s.alert != 0 {
		return renderAlert(s.alert, width, height)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.user.Name))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  @%s  %s", s.user.ID, s.icon)))
	b.WriteString("\n")
	b.WriteString(clip(s.user.Description, width))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d followees  %d followers", s.user.FolloweesCount, s.user.FollowersCount))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(s.articles))
	for _, a := range s.articles {
		lines = append(lines, articleLine(a))
	}
	b.WriteString(renderList(lines, s.cursor, width, height-6))
	if label := loadingLabel(s.loading); label != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  " + label))
	}
	return b.String()
}

func (s *detailScreen) Help() string {
	if s.alert != 0 {
		if s.alert.HasRetry() {
			return helpView(alertKeys.Close, alertKeys.Retry)
		}
		return helpView(alertKeys.Close)
	}
	return helpView(listKeys.Up, listKeys.Open, listKeys.Refresh, listKeys.More, listKeys.Followees, listKeys.Followers, listKeys.Back)
}

func articleLine(a model.Article) string {
	line := fmt.Sprintf("%s  ♥%d  %s", a.CreatedAt.Format("2006-01-02"), a.LikesCount, a.Title)
	if tags := a.TagNames(); len(tags) > 0 {
		line += mutedStyle.Render("  #" + strings.Join(tags, " #"))
	}
	return line
}

func loadingLabel(state usecase.FetchState) string {
	switch state {
	case usecase.FetchInitial:
		return "Loading…"
	case usecase.FetchRefresh:
		return "Refreshing…"
	case usecase.FetchNextPage:
		return "Loading next page…"
	default:
		return ""
	}
}

// iconLabel describes the profile image state in place of the picture.
func iconLabel(state usecase.ImageState) string {
	switch state.Kind {
	case usecase.ViewLoading:
		return "[icon …]"
	case usecase.ViewAppeared:
		if state.Data == nil {
			return "[no icon]"
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(state.Data))
		if err != nil {
			return fmt.Sprintf("[icon %d bytes]", len(state.Data))
		}
		return fmt.Sprintf("[icon %dx%d %s]", cfg.Width, cfg.Height, format)
	default:
		return "[icon]"
	}
}
