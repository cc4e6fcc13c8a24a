package keymap

import "github.com/charmbracelet/bubbles/key"

// bindQuit is active in every mode.
var bindQuit = Binding{key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")), CmdQuit}

// Default returns the standard bindings.
func Default() *Keymap {
	return &Keymap{
		modes: map[Mode][]Binding{
			ModeLoading: defaultLoadingBindings(),
			ModeReady:   defaultReadyBindings(),
			ModeFailed:  defaultFailedBindings(),
		},
	}
}

func defaultLoadingBindings() []Binding {
	return []Binding{bindQuit}
}

func defaultReadyBindings() []Binding {
	return []Binding{
		// Buttons
		{key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next button")), CmdFocusNext},
		{key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev button")), CmdFocusPrev},
		{key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")), CmdActivate},

		// Scrolling
		{key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")), CmdScrollUp},
		{key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")), CmdScrollDown},
		{key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")), CmdPageUp},
		{key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")), CmdPageDown},

		{key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")), CmdToggleHelp},
		bindQuit,
	}
}

func defaultFailedBindings() []Binding {
	return []Binding{
		{key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")), CmdRetry},
		bindQuit,
	}
}
