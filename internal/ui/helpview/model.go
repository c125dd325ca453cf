// Package helpview renders the keyboard-shortcut overlay, grouped by
// what the keys do on the board: navigation, todo actions, keyboard
// drag, and group management.
package helpview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hqnguyen/dayboard/internal/keys"
	"github.com/hqnguyen/dayboard/internal/theme"
)

// section is one titled block of related bindings.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   keys,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) sections() []section {
	k := m.keys
	return []section{
		{"Navigate", []key.Binding{k.Up, k.Down, k.TabToday, k.TabBacklog, k.TabDeleted}},
		{"Todos", []key.Binding{k.New, k.Edit, k.Toggle, k.Star, k.Delete}},
		{"Drag", []key.Binding{k.DragUp, k.DragDown, k.MoveGroup}},
		{"Groups", []key.Binding{k.GroupLeft, k.GroupRight, k.GroupRename}},
		{"General", []key.Binding{k.Help, k.Back, k.Quit}},
	}
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	blocks := []string{titleStyle.Render("Keyboard Shortcuts")}
	for _, sec := range m.sections() {
		blocks = append(blocks, renderSection(sec))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func renderSection(sec section) string {
	keyWidth := 0
	for _, b := range sec.bindings {
		if w := lipgloss.Width(b.Help().Key); w > keyWidth {
			keyWidth = w
		}
	}

	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		Width(keyWidth + 2)

	var b strings.Builder
	b.WriteString(theme.SectionStyle.Render(sec.title))
	for _, binding := range sec.bindings {
		h := binding.Help()
		b.WriteString("\n  ")
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(theme.HelpStyle.Render(h.Desc))
	}
	return b.String()
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
