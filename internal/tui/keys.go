package tui

import "github.com/charmbracelet/bubbles/key"

// Keymap lists the TUI key bindings.
type Keymap struct {
	Quit          key.Binding
	Up            key.Binding
	Down          key.Binding
	Roles         key.Binding
	Filter        key.Binding
	ToggleFilters key.Binding
	Tooltip       key.Binding
	AddToStory    key.Binding
	DeleteSlide   key.Binding
	Export        key.Binding
	Share         key.Binding
	ChartCode     key.Binding
	StoryCode     key.Binding
	Copy          key.Binding
	Help          key.Binding
}

// Keys is the default keymap.
var Keys = Keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous chart"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next chart"),
	),
	Roles: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "select columns"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	ToggleFilters: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "toggle filters"),
	),
	Tooltip: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle tooltips"),
	),
	AddToStory: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a", "add chart to story"),
	),
	DeleteSlide: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete last slide"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export story"),
	),
	Share: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "share story"),
	),
	ChartCode: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "chart code"),
	),
	StoryCode: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "story code"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy code"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Roles, k.Filter, k.AddToStory, k.DeleteSlide, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Roles, k.Filter, k.ToggleFilters},
		{k.Tooltip, k.AddToStory, k.DeleteSlide, k.Export, k.Share},
		{k.ChartCode, k.StoryCode, k.Copy, k.Help, k.Quit},
	}
}
