package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"qiitawatch/internal/domain/model"
)

// stateMsg carries one view state received from a screen's state machine.
type stateMsg[S any] struct {
	screen int
	state  S
	closed bool
	ch     <-chan S
}

// routedMsg is a message addressed to a specific screen.
type routedMsg interface {
	screenID() int
	// drain keeps receiving for a screen that is no longer on the stack.
	drain() tea.Cmd
}

func (m stateMsg[S]) screenID() int { return m.screen }

func (m stateMsg[S]) drain() tea.Cmd {
	if m.closed {
		return nil
	}
	return waitFor(m.screen, m.ch)
}

// waitFor receives the next state from ch.
func waitFor[S any](screen int, ch <-chan S) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		return stateMsg[S]{screen: screen, state: state, closed: !ok, ch: ch}
	}
}

type previewMsg struct {
	screen  int
	preview model.Preview
	err     error
}

func (m previewMsg) screenID() int   { return m.screen }
func (m previewMsg) drain() tea.Cmd { return nil }

// navigation is what a screen asks the model to do after handling a message.
type navigation struct {
	push screen
	pop  bool
}

// screen is one entry of the navigation stack.
type screen interface {
	ID() int
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, navigation)
	View(width, height int) string
	Help() string
	Close()
}
