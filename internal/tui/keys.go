package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browser key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	// Scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding

	// Navigation
	Next    key.Binding
	Prev    key.Binding
	Menu    key.Binding
	Goto    key.Binding
	Back    key.Binding
	Forward key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "view help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),

		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next page"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "previous page"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g", ":"),
			key.WithHelp("g", "follow link / go to"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "forward"),
		),
	}
}

// statusKeys are shown in the status line.
func (k KeyMap) statusKeys() []key.Binding {
	return []key.Binding{k.Goto, k.Next, k.Prev, k.Menu, k.Back, k.Forward, k.Help, k.Quit}
}
