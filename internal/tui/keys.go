package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New            key.Binding
	ToggleDone     key.Binding
	Select         key.Binding
	Delete         key.Binding
	DeleteSelected key.Binding
	Search         key.Binding
	Status         key.Binding
	ClearFilters   key.Binding
	Refresh        key.Binding
	PrevPage       key.Binding
	NextPage       key.Binding
	Admin          key.Binding
	Export         key.Binding
	Logout         key.Binding
	Help           key.Binding
	Enter          key.Binding
	Back           key.Binding
	Up             key.Binding
	Down           key.Binding
	Quit           key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new todo"),
	),
	ToggleDone: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "done/undone"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	DeleteSelected: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete selected"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Status: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status filter"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filters"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h", "["),
		key.WithHelp("←/[", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l", "]"),
		key.WithHelp("→/]", "next page"),
	),
	Admin: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "admin view"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "logout"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.ToggleDone, k.Select, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.ToggleDone, k.Select, k.Delete, k.DeleteSelected},
		{k.Search, k.Status, k.ClearFilters, k.Refresh},
		{k.PrevPage, k.NextPage, k.Admin, k.Export, k.Logout},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
