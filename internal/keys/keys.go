// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
	Bot  key.Binding

	// Paging
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Enter    key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Checkout key.Binding
	Pull     key.Binding
	Detail   key.Binding
	SaveQry  key.Binding
	Delete   key.Binding

	// Diff view
	CycleLayout key.Binding
	Unified     key.Binding
	SideBySide  key.Binding
	Split       key.Binding
	FileList    key.Binding
	NextFile    key.Binding
	PrevFile    key.Binding
	ToggleWords key.Binding

	// General
	Help key.Binding
	Logs key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bot: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("b", "pgup"),
			key.WithHelp("b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("f", "pgdown", " "),
			key.WithHelp("f", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checkout"),
		),
		Pull: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pull"),
		),
		Detail: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle detail"),
		),
		SaveQry: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save query"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete query"),
		),
		CycleLayout: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "cycle layout"),
		),
		Unified: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "unified"),
		),
		SideBySide: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "side by side"),
		),
		Split: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "split"),
		),
		FileList: key.NewBinding(
			key.WithKeys("l", "t"),
			key.WithHelp("l", "file list"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("]", "J"),
			key.WithHelp("]", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("[", "K"),
			key.WithHelp("[", "prev file"),
		),
		ToggleWords: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "word diff"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the collapsed help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bot, k.PageUp, k.PageDown},
		{k.Enter, k.Back, k.Detail, k.Refresh, k.Checkout, k.Pull},
		{k.CycleLayout, k.Unified, k.SideBySide, k.Split, k.FileList, k.ToggleWords},
		{k.SaveQry, k.Delete, k.Help, k.Logs, k.Quit},
	}
}
