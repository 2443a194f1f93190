package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-derby/internal/derby"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected Action
	}{
		{"generate", runeKey('g'), ActionGenerate},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ActionFlow},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, ActionFlow},
		{"reset", runeKey('r'), ActionReset},
		{"new seed", runeKey('n'), ActionNewSeed},
		{"help", runeKey('?'), ActionHelp},
		{"quit", runeKey('q'), ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
		{"unbound", runeKey('x'), ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.expected {
				t.Errorf("Action(%q) = %d, expected %d", tt.msg.String(), got, tt.expected)
			}
		})
	}
}

func TestFlowLabel(t *testing.T) {
	tests := map[derby.Status]string{
		derby.StatusIdle:     "start",
		derby.StatusReady:    "start",
		derby.StatusRunning:  "pause",
		derby.StatusPaused:   "resume",
		derby.StatusAwaiting: "next lap",
		derby.StatusFinished: "start",
	}

	for status, expected := range tests {
		if got := FlowLabel(status); got != expected {
			t.Errorf("FlowLabel(%s) = %q, expected %q", status, got, expected)
		}
	}
}

func TestWithFlowLabelKeepsBaseBindings(t *testing.T) {
	keys := DefaultKeyMap()
	labeled := keys.WithFlowLabel(derby.StatusIdle)

	if labeled.Flow.Enabled() {
		t.Error("flow binding should be hidden while idle")
	}
	if !keys.Flow.Enabled() {
		t.Error("labeling should not modify the original key map")
	}
	if got := keys.WithFlowLabel(derby.StatusRunning).Flow.Help().Desc; got != "pause" {
		t.Errorf("running flow help = %q, expected pause", got)
	}
}
