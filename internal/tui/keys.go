package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev, Next     key.Binding
	Search, Submit key.Binding
	NextStage      key.Binding
	PrevStage      key.Binding
	Reload         key.Binding
	Blur           key.Binding
	Quit           key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		NextStage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "evolution")),
		PrevStage: key.NewBinding(key.WithKeys("shift+tab")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Blur:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Search, k.NextStage, k.Submit, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
