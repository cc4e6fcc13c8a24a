// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per mode so the model's Update can resolve a key
// press to a Command without a switch over raw key strings.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current state of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeLoading Mode = "loading" // Waiting for the definition document
	ModeReady   Mode = "ready"   // Tree mounted and interactive
	ModeFailed  Mode = "failed"  // Bootstrap gave up; error view shown
)

// Command represents a named action that can be triggered by a key binding.
type Command string

const (
	CmdFocusNext  Command = "focus_next"
	CmdFocusPrev  Command = "focus_prev"
	CmdActivate   Command = "activate"
	CmdScrollUp   Command = "scroll_up"
	CmdScrollDown Command = "scroll_down"
	CmdPageUp     Command = "page_up"
	CmdPageDown   Command = "page_down"
	CmdRetry      Command = "retry"
	CmdToggleHelp Command = "toggle_help"
	CmdQuit       Command = "quit"
)

// Binding ties a bubbles key binding to the command it triggers.
type Binding struct {
	key.Binding
	Command Command
}

// Keymap holds the bindings for every mode.
type Keymap struct {
	modes map[Mode][]Binding
}

// Lookup returns the command bound to msg in mode.
func (km *Keymap) Lookup(msg tea.KeyMsg, mode Mode) (Command, bool) {
	for _, b := range km.modes[mode] {
		if key.Matches(msg, b.Binding) {
			return b.Command, true
		}
	}
	return "", false
}

// Bindings returns the bindings active in mode, in display order.
func (km *Keymap) Bindings(mode Mode) []Binding {
	return km.modes[mode]
}

// Help returns a help.KeyMap for rendering the bindings of mode with a
// bubbles help.Model.
func (km *Keymap) Help(mode Mode) help.KeyMap {
	return modeHelp(km.modes[mode])
}

type modeHelp []Binding

func (h modeHelp) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(h))
	for _, b := range h {
		switch b.Command {
		case CmdScrollUp, CmdScrollDown, CmdPageUp, CmdPageDown:
			// Scrolling is listed in the full help only
			continue
		}
		out = append(out, b.Binding)
	}
	return out
}

func (h modeHelp) FullHelp() [][]key.Binding {
	all := make([]key.Binding, len(h))
	for i, b := range h {
		all[i] = b.Binding
	}
	return [][]key.Binding{all}
}
