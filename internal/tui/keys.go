package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the model reacts to. It implements help.KeyMap.
type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Work      key.Binding
	ShortRest key.Binding
	LongRest  key.Binding
	Prev      key.Binding
	Next      key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Work: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "pomodoro"),
		),
		ShortRest: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "short break"),
		),
		LongRest: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "long break"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev setting"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next setting"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+", "=", "up", "k"),
			key.WithHelp("+", "1 min"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-", "_", "down", "j"),
			key.WithHelp("-", "1 min"),
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

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Increase, k.Decrease, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Quit},
		{k.Work, k.ShortRest, k.LongRest},
		{k.Prev, k.Next, k.Increase, k.Decrease},
		{k.Help},
	}
}
