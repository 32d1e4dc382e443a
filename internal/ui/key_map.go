package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	nextTab key.Binding
	prevTab key.Binding
	next    key.Binding
	prev    key.Binding
	search  key.Binding
	sort    key.Binding
	reveal  key.Binding
	board   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		sort:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort order")),
		reveal:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show spoiler")),
		board:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "board")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.nextTab, k.prevTab},
		{k.next, k.prev, k.search},
		{k.sort, k.reveal, k.board, k.quit},
	}
}
