package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the portal responds to. It implements
// help.KeyMap for the help overlay.
type keyMap struct {
	Next           key.Binding
	Prev           key.Binding
	Open           key.Binding
	Back           key.Binding
	BrowserBack    key.Binding
	BrowserForward key.Binding
	Address        key.Binding
	Logout         key.Binding
	SwitchForm     key.Binding
	Cancel         key.Binding
	Help           key.Binding
	Quit           key.Binding
	ForceQuit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab", "nästa"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up", "k"),
			key.WithHelp("shift+tab", "föregående"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "öppna"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bakåt i portalen"),
		),
		BrowserBack: key.NewBinding(
			key.WithKeys("[", "alt+left"),
			key.WithHelp("[", "historik bakåt"),
		),
		BrowserForward: key.NewBinding(
			key.WithKeys("]", "alt+right"),
			key.WithHelp("]", "historik framåt"),
		),
		Address: key.NewBinding(
			key.WithKeys(":", "f6"),
			key.WithHelp(":", "adressfält"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logga ut"),
		),
		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "byt formulär"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "avbryt"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "hjälp"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "avsluta"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Open, k.Back},
		{k.BrowserBack, k.BrowserForward, k.Address},
		{k.Logout, k.SwitchForm, k.Cancel, k.Help, k.Quit},
	}
}
