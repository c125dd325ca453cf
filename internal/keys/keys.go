package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Tabs
	TabToday   key.Binding
	TabBacklog key.Binding
	TabDeleted key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Item actions
	New    key.Binding
	Edit   key.Binding
	Toggle key.Binding
	Star   key.Binding
	Delete key.Binding

	// Ordering ("keyboard drag")
	DragUp    key.Binding
	DragDown  key.Binding
	MoveGroup key.Binding

	// Group actions
	GroupLeft   key.Binding
	GroupRight  key.Binding
	GroupRename key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		TabToday: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "today"),
		),
		TabBacklog: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "backlog"),
		),
		TabDeleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "deleted"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle complete"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DragUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "drag up"),
		),
		DragDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "drag down"),
		),
		MoveGroup: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to next group"),
		),
		GroupLeft: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "group earlier"),
		),
		GroupRight: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "group later"),
		),
		GroupRename: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename group"),
		),
	}
}
