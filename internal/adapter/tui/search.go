package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qiitawatch/internal/alert"
	"qiitawatch/internal/usecase"
)

var searchKeys = struct {
	Search, Up, Down, Delete, Leave key.Binding
}{
	Search: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search / pick")),
	Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
	Down:   key.NewBinding(key.WithKeys("down")),
	Delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete term")),
	Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to input")),
}

var alertKeys = struct {
	Close, Retry key.Binding
}{
	Close: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "close")),
	Retry: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "retry")),
}

type searchScreen struct {
	id      int
	f       *factory
	machine *usecase.UserSearch
	input   textinput.Model
	width   int
	height  int

	history []string
	// cursor indexes history; -1 means the text field has focus.
	cursor  int
	loading bool
	alert   alert.Case
}

func newSearchScreen(f *factory, machine *usecase.UserSearch) *searchScreen {
	input := textinput.New()
	input.Placeholder = "Qiita user id"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Focus()

	return &searchScreen{
		id:      f.nextID(),
		f:       f,
		machine: machine,
		input:   input,
		cursor:  -1,
	}
}

func (s *searchScreen) ID() int       { return s.id }
func (s *searchScreen) Title() string { return "Search" }

func (s *searchScreen) Init() tea.Cmd {
	return tea.Batch(
		waitFor(s.id, s.machine.States()),
		s.f.run(s.machine.OnAppear),
		textinput.Blink,
	)
}

func (s *searchScreen) Close() {
	s.machine.OnDisappear()
}

func (s *searchScreen) Update(msg tea.Msg) (tea.Cmd, navigation) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.input.Width = max(msg.Width-4, 10)
		return nil, navigation{}
	case stateMsg[usecase.SearchState]:
		return s.apply(msg)
	case tea.KeyMsg:
		return s.handleKey(msg), navigation{}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd, navigation{}
}

func (s *searchScreen) apply(msg stateMsg[usecase.SearchState]) (tea.Cmd, navigation) {
	if msg.closed {
		return nil, navigation{}
	}
	next := waitFor(s.id, msg.ch)

	state := msg.state
	switch state.Kind {
	case usecase.ViewInitial, usecase.ViewAppeared:
		s.loading = false
		s.alert = 0
		s.history = state.History
		if s.cursor >= len(s.history) {
			s.cursor = len(s.history) - 1
		}
		if s.cursor < 0 {
			s.focusInput()
		}
	case usecase.ViewLoading:
		s.loading = true
	case usecase.ViewAlert:
		s.loading = false
		s.alert = state.Alert
	case usecase.ViewScreenTransition:
		s.loading = false
		if state.Destination.Kind == usecase.DestinationUserDetail {
			return next, navigation{push: s.f.newDetail(state.Destination.User)}
		}
	}
	return next, navigation{}
}

func (s *searchScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.alert != 0 {
		if key.Matches(msg, alertKeys.Close) {
			s.machine.TappedCloseAlert()
		}
		return nil
	}
	if s.loading {
		return nil
	}

	switch {
	case key.Matches(msg, searchKeys.Search):
		if s.cursor >= 0 {
			s.pick(s.history[s.cursor])
			return nil
		}
		if strings.TrimSpace(s.input.Value()) == "" {
			return nil
		}
		s.loading = true
		return s.f.run(s.machine.TappedSearch)
	case key.Matches(msg, searchKeys.Down):
		if len(s.history) > 0 {
			s.cursor = clamp(s.cursor+1, 0, len(s.history)-1)
			s.input.Blur()
		}
		return nil
	case key.Matches(msg, searchKeys.Up):
		if s.cursor >= 0 {
			s.cursor--
			if s.cursor < 0 {
				s.focusInput()
			}
		}
		return nil
	case key.Matches(msg, searchKeys.Delete):
		if s.cursor < 0 {
			return nil
		}
		term := s.history[s.cursor]
		return s.f.run(func(ctx context.Context) { s.machine.DeleteTerm(ctx, term) })
	case key.Matches(msg, searchKeys.Leave):
		s.cursor = -1
		s.focusInput()
		return nil
	}

	if s.cursor >= 0 {
		return nil
	}
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != before {
		s.machine.DidEnterText(s.input.Value())
	}
	return cmd
}

// pick fills the text field with a history term.
func (s *searchScreen) pick(term string) {
	s.input.SetValue(term)
	s.input.CursorEnd()
	s.cursor = -1
	s.focusInput()
	s.machine.DidEnterText(term)
}

func (s *searchScreen) focusInput() {
	if !s.input.Focused() {
		s.input.Focus()
	}
}

func (s *searchScreen) View(width, height int) string {
	if s.alert != 0 {
		return renderAlert(s.alert, width, height)
	}

	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n")
	switch {
	case s.loading:
		b.WriteString(mutedStyle.Render("  Searching…"))
	case strings.TrimSpace(s.input.Value()) == "":
		b.WriteString(mutedStyle.Render("  Enter a user id to search"))
	default:
		b.WriteString(mutedStyle.Render("  [enter] search"))
	}
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n")
	b.WriteString(renderList(s.history, s.cursor, width, height-5))
	return b.String()
}

func (s *searchScreen) Help() string {
	if s.alert != 0 {
		return helpView(alertKeys.Close)
	}
	return helpView(searchKeys.Search, searchKeys.Up, searchKeys.Delete, searchKeys.Leave)
}
