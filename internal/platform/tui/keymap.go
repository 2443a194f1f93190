package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-derby/internal/derby"
)

// Action is a user command derived from input.
type Action int

const (
	ActionNone Action = iota
	ActionGenerate
	ActionFlow
	ActionReset
	ActionNewSeed
	ActionHelp
	ActionQuit
)

// KeyMap defines the key bindings for the race screen.
type KeyMap struct {
	Generate key.Binding
	Flow     key.Binding
	Reset    key.Binding
	NewSeed  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Flow, k.Reset, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Flow, k.Reset},
		{k.NewSeed, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate program"),
		),
		Flow: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		NewSeed: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new horses"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to an action.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.Generate):
		return ActionGenerate
	case key.Matches(msg, k.Flow):
		return ActionFlow
	case key.Matches(msg, k.Reset):
		return ActionReset
	case key.Matches(msg, k.NewSeed):
		return ActionNewSeed
	case key.Matches(msg, k.Help):
		return ActionHelp
	}
	return ActionNone
}

// WithFlowLabel returns a copy whose flow binding describes what the key
// does in the given state.
func (k KeyMap) WithFlowLabel(status derby.Status) KeyMap {
	k.Flow.SetHelp("space", FlowLabel(status))
	k.Flow.SetEnabled(status != derby.StatusIdle && status != derby.StatusFinished)
	return k
}

// FlowLabel names the flow key's effect: start, pause, resume or next lap.
func FlowLabel(status derby.Status) string {
	switch status {
	case derby.StatusRunning:
		return "pause"
	case derby.StatusPaused:
		return "resume"
	case derby.StatusAwaiting:
		return "next lap"
	default:
		return "start"
	}
}
