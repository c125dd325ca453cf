// Package boardview renders the three projection tabs and translates
// keystrokes into coordinator mutations. Reordering keys are the
// keyboard stand-in for pointer drag-and-drop: they issue the same
// reorder/move operations a drag gesture would.
package boardview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hqnguyen/dayboard/internal/keys"
	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/session"
)

// Tab identifies the active projection.
type Tab int

const (
	TabToday Tab = iota
	TabBacklog
	TabDeleted
)

// MutationMsg asks the root model to run a commit for a mutation that
// has already been applied optimistically.
type MutationMsg struct {
	Commit session.CommitFunc
}

// NewTodoMsg asks the root model to open the create form.
type NewTodoMsg struct{}

// EditTodoMsg asks the root model to open the edit form.
type EditTodoMsg struct {
	Todo model.Todo
}

// row is one rendered line: a section/group heading or a todo.
type row struct {
	heading string
	todo    *model.Todo
	group   string // display group, set on todo rows for group ops
	dimmed  bool
}

// Model is the board list view component.
type Model struct {
	sess        *session.Session
	keys        *keys.KeyMap
	tab         Tab
	rows        []row
	cursor      int
	width       int
	height      int
	renaming    bool
	renameInput textinput.Model
	renameFrom  string
}

// New creates a board view bound to the session.
func New(sess *session.Session, k *keys.KeyMap, width, height int) Model {
	ri := textinput.New()
	ri.Prompt = "rename group: "
	ri.CharLimit = 64

	m := Model{
		sess:        sess,
		keys:        k,
		tab:         TabToday,
		renameInput: ri,
		width:       width,
		height:      height,
	}
	return m
}

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Renaming reports whether the group rename input owns the keyboard.
func (m Model) Renaming() bool { return m.renaming }

// SetTab switches the active projection and rebuilds the rows.
func (m *Model) SetTab(t Tab) {
	m.tab = t
	m.cursor = 0
	m.Refresh()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.renameInput.Width = width - 4
}

// Refresh rebuilds the rendered rows from the session's current
// snapshot and clamps the cursor.
func (m *Model) Refresh() {
	switch m.tab {
	case TabToday:
		m.rows = m.todayRows()
	case TabBacklog:
		m.rows = m.backlogRows()
	case TabDeleted:
		m.rows = m.deletedRows()
	}
	m.clampCursor()
}

// Selected returns the todo under the cursor, if any.
func (m Model) Selected() (model.Todo, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].todo != nil {
		return *m.rows[m.cursor].todo, true
	}
	return model.Todo{}, false
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.renaming {
		return m.handleRenameKeys(keyMsg)
	}
	return m.handleNormalKeys(keyMsg)
}

func (m Model) handleRenameKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.renaming = false
		name := m.renameInput.Value()
		commit := m.sess.RenameGroup(m.renameFrom, name)
		m.Refresh()
		return m, mutation(commit)

	case "esc":
		m.renaming = false
		return m, nil
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTodoMsg{} }

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.Selected(); ok && t.Live() {
			return m, func() tea.Msg { return EditTodoMsg{Todo: t} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.Selected(); ok {
			commit := m.sess.ToggleComplete(t.ID)
			m.Refresh()
			return m, mutation(commit)
		}
		return m, nil

	case key.Matches(msg, m.keys.Star):
		if t, ok := m.Selected(); ok {
			starred := !t.Starred
			commit := m.sess.Update(t.ID, starPatch(starred))
			m.Refresh()
			return m, mutation(commit)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.Selected(); ok && m.tab != TabDeleted {
			commit := m.sess.Delete(t.ID)
			m.Refresh()
			return m, mutation(commit)
		}
		return m, nil

	case key.Matches(msg, m.keys.DragUp):
		return m.drag(-1)

	case key.Matches(msg, m.keys.DragDown):
		return m.drag(1)

	case key.Matches(msg, m.keys.MoveGroup):
		return m.moveToNextGroup()

	case key.Matches(msg, m.keys.GroupLeft):
		return m.shiftGroup(false)

	case key.Matches(msg, m.keys.GroupRight):
		return m.shiftGroup(true)

	case key.Matches(msg, m.keys.GroupRename):
		if m.tab != TabBacklog {
			return m, nil
		}
		if t, ok := m.Selected(); ok {
			m.renaming = true
			m.renameFrom = t.DisplayGroup()
			m.renameInput.SetValue(m.renameFrom)
			return m, m.renameInput.Focus()
		}
		return m, nil
	}

	return m, nil
}

// drag moves the selected todo one slot up or down. Crossing a group
// boundary becomes a cross-bucket move onto the neighbor's slot.
func (m Model) drag(dir int) (Model, tea.Cmd) {
	if m.tab != TabBacklog {
		return m, nil
	}
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}
	neighbor, ok := m.adjacentTodo(dir)
	if !ok {
		return m, nil
	}

	var commit session.CommitFunc
	if t.SameBucket(neighbor) {
		commit = m.sess.Reorder(t.ID, neighbor.ID)
	} else {
		commit = m.sess.Move(t.ID, neighbor.ID, neighbor.DisplayGroup())
	}
	m.Refresh()
	m.cursor = m.rowIndexOf(t.ID)
	return m, mutation(commit)
}

// moveToNextGroup drags the selected todo onto the first member of the
// next group section.
func (m Model) moveToNextGroup() (Model, tea.Cmd) {
	if m.tab != TabBacklog {
		return m, nil
	}
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}

	view := m.sess.Backlog()
	sections := view.Active
	for i, sec := range sections {
		if sec.Name != t.DisplayGroup() {
			continue
		}
		next := sections[(i+1)%len(sections)]
		if next.Name == sec.Name {
			return m, nil
		}
		commit := m.sess.Move(t.ID, next.Todos[0].ID, next.Name)
		m.Refresh()
		m.cursor = m.rowIndexOf(t.ID)
		return m, mutation(commit)
	}
	return m, nil
}

// shiftGroup moves the selected todo's group one position earlier or
// later in the saved group order.
func (m Model) shiftGroup(later bool) (Model, tea.Cmd) {
	if m.tab != TabBacklog {
		return m, nil
	}
	t, ok := m.Selected()
	if !ok {
		return m, nil
	}

	names := m.sectionNames()
	at := -1
	for i, n := range names {
		if n == t.DisplayGroup() {
			at = i
			break
		}
	}
	target := at + 1
	if !later {
		target = at - 1
	}
	if at < 0 || target < 0 || target >= len(names) {
		return m, nil
	}

	commit := m.sess.MoveGroup(names[at], names[target], later)
	m.Refresh()
	m.cursor = m.rowIndexOf(t.ID)
	return m, mutation(commit)
}

// sectionNames returns the active backlog group names in display order.
func (m Model) sectionNames() []string {
	var names []string
	for _, sec := range m.sess.Backlog().Active {
		names = append(names, sec.Name)
	}
	return names
}

// adjacentTodo returns the nearest todo row above or below the cursor.
func (m Model) adjacentTodo(dir int) (model.Todo, bool) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].todo != nil {
			return *m.rows[i].todo, true
		}
	}
	return model.Todo{}, false
}

// rowIndexOf returns the row index of a todo id, or the clamped cursor.
func (m Model) rowIndexOf(id string) int {
	for i, r := range m.rows {
		if r.todo != nil && r.todo.ID == id {
			return i
		}
	}
	if m.cursor >= len(m.rows) {
		return len(m.rows) - 1
	}
	return m.cursor
}

// moveCursor steps the cursor to the next todo row in the given
// direction, skipping headings.
func (m *Model) moveCursor(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].todo != nil {
			m.cursor = i
			return
		}
	}
}

// clampCursor keeps the cursor on a todo row after a refresh.
func (m *Model) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.rows[m.cursor].todo != nil {
		return
	}
	for i := m.cursor; i < len(m.rows); i++ {
		if m.rows[i].todo != nil {
			m.cursor = i
			return
		}
	}
	for i := m.cursor; i >= 0; i-- {
		if m.rows[i].todo != nil {
			m.cursor = i
			return
		}
	}
}

// mutation wraps a commit in a message for the root model. Validation
// no-ops produce no command.
func mutation(commit session.CommitFunc) tea.Cmd {
	if commit == nil {
		return nil
	}
	return func() tea.Msg { return MutationMsg{Commit: commit} }
}
