package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor-level keybindings. Modal-local keys (commit,
// cancel) live with the modals.
type KeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	SwitchPane  key.Binding
	HalfDown    key.Binding
	HalfUp      key.Binding
	Edit        key.Binding
	Retranslate key.Binding
	Reasoning   key.Binding
	Dismiss     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next segment"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous segment"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "scroll down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "scroll up"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit translation"),
		),
		Retranslate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-translate"),
		),
		Reasoning: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "reasoning panel"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss toast"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Edit, k.Retranslate, k.Reasoning, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.SwitchPane, k.HalfDown, k.HalfUp},
		{k.Edit, k.Retranslate, k.Reasoning},
		{k.Dismiss, k.Help, k.Quit},
	}
}
