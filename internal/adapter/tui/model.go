// Package tui is the terminal front end. Every screen renders the view states
// of one state machine and forwards key presses to it as gestures.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/usecase"
)

// UserSource looks users up and reads their follow graph.
type UserSource interface {
	usecase.UserLookup
	usecase.FollowSource
}

// Deps are the collaborators the screens drive.
type Deps struct {
	Users    UserSource
	Articles usecase.ArticleSource
	Terms    ports.SearchTermStore
	Images   ports.ImageFetcher
	Previews ports.ArticlePreviewer
	Logger   ports.Logger
	// Strict makes state machines panic on invariant violations.
	Strict bool
}

// factory builds screens and hands out their ids.
type factory struct {
	ctx  context.Context
	deps Deps
	next int
}

func (f *factory) nextID() int {
	f.next++
	return f.next
}

func (f *factory) options() []usecase.Option {
	return []usecase.Option{usecase.WithStrictInvariants(f.deps.Strict)}
}

func (f *factory) newSearch() *searchScreen {
	return newSearchScreen(f, usecase.NewUserSearch(f.deps.Users, f.deps.Terms, f.deps.Logger, f.options()...))
}

func (f *factory) newDetail(user model.User) *detailScreen {
	return newDetailScreen(f,
		usecase.NewUserDetail(user, f.deps.Articles, f.deps.Logger, f.options()...),
		usecase.NewAsyncImage(user.ProfileImageURL, f.deps.Images, f.deps.Logger),
	)
}

func (f *factory) newFollowList(kind usecase.FollowKind, userID string) *followScreen {
	return newFollowScreen(f, usecase.NewFollowList(kind, userID, f.deps.Users, f.deps.Logger, f.options()...))
}

func (f *factory) newPreview(url string) *previewScreen {
	return newPreviewScreen(f, url)
}

// run wraps a blocking gesture in a command. The machine reports its
// result through its state stream, so the command itself yields no message.
func (f *factory) run(gesture func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		gesture(f.ctx)
		return nil
	}
}

var quitKey = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))

// Model is the bubbletea model holding the navigation stack.
type Model struct {
	factory *factory
	stack   []screen
	width   int
	height  int
}

// New creates the model with the search screen as its root.
func New(ctx context.Context, deps Deps) Model {
	f := &factory{ctx: ctx, deps: deps}
	return Model{
		factory: f,
		stack:   []screen{f.newSearch()},
	}
}

func (m Model) Init() tea.Cmd {
	return m.top().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.stack) == 0 {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		var cmds []tea.Cmd
		for _, s := range m.stack {
			cmd, _ := s.Update(m.bodySize())
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			m.closeAll()
			return m, tea.Quit
		}
		return m.navigate(m.top().Update(msg))

	case routedMsg:
		s := m.find(msg.screenID())
		if s == nil {
			return m, msg.drain()
		}
		cmd, nav := s.Update(msg)
		if s != m.top() {
			return m, cmd
		}
		return m.navigate(cmd, nav)
	}

	cmd, _ := m.top().Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.stack) == 0 {
		return ""
	}
	titles := make([]string, 0, len(m.stack))
	for _, s := range m.stack {
		titles = append(titles, s.Title())
	}

	size := m.bodySize()
	var b strings.Builder
	b.WriteString(clip(crumbStyle.Render(strings.Join(titles[:len(titles)-1], " › ")), m.width))
	if len(titles) > 1 {
		b.WriteString(crumbStyle.Render(" › "))
	}
	b.WriteString(titleStyle.Render(titles[len(titles)-1]))
	b.WriteString("\n\n")
	b.WriteString(m.top().View(size.Width, size.Height))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.top().Help()))
	return b.String()
}

func (m Model) navigate(cmd tea.Cmd, nav navigation) (tea.Model, tea.Cmd) {
	switch {
	case nav.pop:
		m.top().Close()
		m.stack = m.stack[:len(m.stack)-1]
		if len(m.stack) == 0 {
			return m, tea.Quit
		}
		return m, cmd
	case nav.push != nil:
		m.stack = append(m.stack, nav.push)
		sized, _ := nav.push.Update(m.bodySize())
		return m, tea.Batch(cmd, sized, nav.push.Init())
	}
	return m, cmd
}

func (m Model) top() screen {
	return m.stack[len(m.stack)-1]
}

func (m Model) find(id int) screen {
	for _, s := range m.stack {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

func (m Model) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
}

func (m Model) closeAll() {
	for i := len(m.stack) - 1; i >= 0; i-- {
		m.stack[i].Close()
	}
}

func helpView(bindings ...key.Binding) string {
	return help.New().ShortHelpView(append(bindings, quitKey))
}

var teaNewProgram = tea.NewProgram

var runTeaProgram = func(p *tea.Program) (tea.Model, error) {
	return p.Run()
}

// Run shows the search screen and blocks until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps) error {
	program := teaNewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := runTeaProgram(program)
	if m, ok := final.(Model); ok && err != nil {
		m.closeAll()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
