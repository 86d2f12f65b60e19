package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the playback bindings. Scrolling keys are left to the viewport.
type KeyMap struct {
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	NextFile key.Binding
	PrevFile key.Binding
	First    key.Binding
	Last     key.Binding
	Restart  key.Binding
	Outline  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Play: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next step"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "b"),
			key.WithHelp("←/b", "previous step"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous file"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first step"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last step"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Outline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle outline"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Prev, k.Next, k.NextFile, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Restart, k.Quit},
		{k.Prev, k.Next, k.First, k.Last},
		{k.NextFile, k.PrevFile, k.Outline, k.Help},
	}
}
