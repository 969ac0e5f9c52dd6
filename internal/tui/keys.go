package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit   key.Binding
	Clear    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s", "alt+enter"),
			key.WithHelp("ctrl+s", "ask"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+n"),
			key.WithHelp("pgdn", "next sources"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "ctrl+p"),
			key.WithHelp("pgup", "prev sources"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.PrevPage, k.NextPage, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Clear},
		{k.PrevPage, k.NextPage},
		{k.Quit},
	}
}
