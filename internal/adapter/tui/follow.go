package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/usecase"
)

type followScreen struct {
	id      int
	f       *factory
	machine *usecase.FollowList

	users   []model.User
	cursor  int
	loading usecase.FetchState
	alert   alert.Case
}

func newFollowScreen(f *factory, machine *usecase.FollowList) *followScreen {
	return &followScreen{id: f.nextID(), f: f, machine: machine}
}

func (s *followScreen) ID() int { return s.id }

func (s *followScreen) Title() string {
	return s.machine.Kind().Title()
}

func (s *followScreen) Init() tea.Cmd {
	return tea.Batch(waitFor(s.id, s.machine.States()), s.f.run(s.machine.OnAppear))
}

func (s *followScreen) Close() {
	s.machine.OnDisappear()
}

func (s *followScreen) Update(msg tea.Msg) (tea.Cmd, navigation) {
	switch msg := msg.(type) {
	case stateMsg[usecase.FollowListState]:
		return s.apply(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil, navigation{}
}

func (s *followScreen) apply(msg stateMsg[usecase.FollowListState]) (tea.Cmd, navigation) {
	if msg.closed {
		return nil, navigation{}
	}
	next := waitFor(s.id, msg.ch)

	state := msg.state
	switch state.Kind {
	case usecase.ViewAppeared:
		s.users = state.Users
		s.loading = usecase.FetchNone
		s.alert = 0
		s.cursor = clamp(s.cursor, 0, max(len(s.users)-1, 0))
	case usecase.ViewLoading:
		s.loading = state.Fetch
	case usecase.ViewAlert:
		s.loading = usecase.FetchNone
		s.alert = state.Alert
	case usecase.ViewScreenTransition:
		if state.Destination.Kind == usecase.DestinationUserDetail {
			return next, navigation{push: s.f.newDetail(state.Destination.User)}
		}
	}
	return next, navigation{}
}

func (s *followScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, navigation) {
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
		s.cursor = clamp(s.cursor-1, 0, max(len(s.users)-1, 0))
	case key.Matches(msg, listKeys.Down):
		s.cursor = clamp(s.cursor+1, 0, max(len(s.users)-1, 0))
	case key.Matches(msg, listKeys.Open):
		if len(s.users) > 0 {
			s.machine.TappedUser(s.users[s.cursor].ID)
		}
	case key.Matches(msg, listKeys.Refresh):
		s.loading = usecase.FetchRefresh
		return s.f.run(s.machine.PullToRefresh), navigation{}
	case key.Matches(msg, listKeys.More):
		s.loading = usecase.FetchNextPage
		return s.f.run(s.machine.PushToRefresh), navigation{}
	}
	return nil, navigation{}
}

func (s *followScreen) View(width, height int) string {
	if s.alert != 0 {
		return renderAlert(s.alert, width, height)
	}

	lines := make([]string, 0, len(s.users))
	for _, u := range s.users {
		lines = append(lines, fmt.Sprintf("%s  %s", u.ID, mutedStyle.Render(u.Name)))
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s of @%s", strings.ToLower(s.Title()), s.machine.TargetID())))
	b.WriteString("\n\n")
	b.WriteString(renderList(lines, s.cursor, width, height-3))
	if label := loadingLabel(s.loading); label != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  " + label))
	}
	return b.String()
}

func (s *followScreen) Help() string {
	if s.alert != 0 {
		if s.alert.HasRetry() {
			return helpView(alertKeys.Close, alertKeys.Retry)
		}
		return helpView(alertKeys.Close)
	}
	return helpView(listKeys.Up, listKeys.Open, listKeys.Refresh, listKeys.More, listKeys.Back)
}
