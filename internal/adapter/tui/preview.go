package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// previewScreen shows the readable text of an article page.
type previewScreen struct {
	id       int
	f        *factory
	url      string
	viewport viewport.Model

	loaded bool
	title  string
	err    error
}

func newPreviewScreen(f *factory, url string) *previewScreen {
	return &previewScreen{
		id:       f.nextID(),
		f:        f,
		url:      url,
		viewport: viewport.New(80, 20),
	}
}

func (s *previewScreen) ID() int { return s.id }

func (s *previewScreen) Title() string {
	if s.title != "" {
		return s.title
	}
	return "Article"
}

func (s *previewScreen) Init() tea.Cmd {
	id, url, previews, ctx := s.id, s.url, s.f.deps.Previews, s.f.ctx
	return func() tea.Msg {
		p, err := previews.Preview(ctx, url)
		return previewMsg{screen: id, preview: p, err: err}
	}
}

func (s *previewScreen) Close() {}

func (s *previewScreen) Update(msg tea.Msg) (tea.Cmd, navigation) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.viewport.Width = msg.Width
		s.viewport.Height = max(msg.Height-2, 1)
		return nil, navigation{}
	case previewMsg:
		s.loaded = true
		s.err = msg.err
		if msg.err == nil {
			s.title = msg.preview.Title
			s.viewport.SetContent(lipgloss.NewStyle().Width(s.viewport.Width).Render(msg.preview.Text))
		}
		return nil, navigation{}
	case tea.KeyMsg:
		if key.Matches(msg, listKeys.Back) {
			return nil, navigation{pop: true}
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd, navigation{}
}

func (s *previewScreen) View(width, _ int) string {
	header := mutedStyle.Render(clip(s.url, width))
	switch {
	case !s.loaded:
		return header + "\n\n" + mutedStyle.Render("  Loading article…")
	case s.err != nil:
		return header + "\n\n" + fmt.Sprintf("  Could not load a preview. Open %s in a browser.", s.url)
	}
	return header + "\n" + s.viewport.View()
}

func (s *previewScreen) Help() string {
	return helpView(
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		listKeys.Back,
	)
}
