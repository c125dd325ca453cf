package boardview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/store"
	"github.com/hqnguyen/dayboard/internal/theme"
)

func starPatch(starred bool) store.TodoPatch {
	return store.TodoPatch{Starred: &starred}
}

// todayRows flattens the four dashboard buckets into rendered rows.
func (m Model) todayRows() []row {
	view := m.sess.Today()
	if view.Empty() {
		return nil
	}

	var rows []row
	section := func(heading string, todos []model.Todo, dimmed bool) {
		if len(todos) == 0 {
			return
		}
		rows = append(rows, row{heading: heading})
		for i := range todos {
			t := todos[i]
			rows = append(rows, row{todo: &t, group: t.DisplayGroup(), dimmed: dimmed})
		}
	}

	section("Starred & due", view.StarredDue, false)
	section("Scheduled", view.Scheduled, false)
	section("Next up", view.NextUp, false)
	section("Completed today", view.CompletedToday, true)
	return rows
}

// backlogRows flattens the grouped backlog partitions into rendered
// rows: active sections first, completed sections collapsed below.
func (m Model) backlogRows() []row {
	view := m.sess.Backlog()

	var rows []row
	for _, sec := range view.Active {
		rows = append(rows, row{heading: sec.Name})
		for i := range sec.Todos {
			t := sec.Todos[i]
			rows = append(rows, row{todo: &t, group: sec.Name})
		}
	}

	if len(view.Done) > 0 {
		rows = append(rows, row{heading: "Completed", dimmed: true})
		for _, sec := range view.Done {
			rows = append(rows, row{heading: "  " + sec.Name, dimmed: true})
			for i := range sec.Todos {
				t := sec.Todos[i]
				rows = append(rows, row{todo: &t, group: sec.Name, dimmed: true})
			}
		}
	}
	return rows
}

// deletedRows lists recoverable soft-deleted todos.
func (m Model) deletedRows() []row {
	var rows []row
	for _, t := range m.sess.Deleted() {
		t := t
		rows = append(rows, row{todo: &t, group: t.DisplayGroup(), dimmed: true})
	}
	return rows
}

// View renders the board list.
func (m Model) View() string {
	if m.renaming {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.renameInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.renderRows())
	}

	if len(m.rows) == 0 {
		return m.renderEmptyState()
	}
	return m.renderRows()
}

func (m Model) renderRows() string {
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		lines = append(lines, m.renderRow(r, i == m.cursor))
	}

	// Keep the cursor visible when the list outgrows the content area.
	visible := m.height
	if visible > 0 && len(lines) > visible {
		start := m.cursor - visible/2
		if start < 0 {
			start = 0
		}
		if start+visible > len(lines) {
			start = len(lines) - visible
		}
		lines = lines[start : start+visible]
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r row, selected bool) string {
	if r.todo == nil {
		style := theme.SectionStyle
		if m.tab == TabBacklog {
			style = theme.GroupHeaderStyle
		}
		if r.dimmed {
			style = theme.DoneHeaderStyle
		}
		return style.Render(r.heading)
	}

	t := *r.todo
	line := m.renderTodoLine(t)
	if r.dimmed || t.Completed {
		line = theme.DimmedStyle.Render(line)
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func (m Model) renderTodoLine(t model.Todo) string {
	prefix := "○"
	if t.Completed {
		prefix = "✓"
	}

	parts := []string{prefix}

	if t.Priority != model.PriorityNone {
		parts = append(parts, theme.PriorityStyle(t.Priority).Render(string(t.Priority)))
	}
	if t.Starred {
		parts = append(parts, theme.StarStyle.Render("★"))
	}

	parts = append(parts, t.Summary)

	if t.DueDate != "" {
		style := theme.DueDateStyle
		if !t.Completed && t.DueDate < time.Now().Format(model.DateLayout) {
			style = theme.OverdueStyle
		}
		parts = append(parts, style.Render("due "+t.DueDate))
	}
	if t.Recurring() {
		parts = append(parts, theme.RepeatStyle.Render(fmt.Sprintf("↻%dd", t.RepeatDays)))
	}
	if m.tab == TabToday {
		parts = append(parts, theme.DueDateStyle.Render("·"+t.DisplayGroup()))
	}
	if m.tab == TabDeleted && t.DeletedAt != nil {
		parts = append(parts, theme.DueDateStyle.Render(
			"deleted "+t.DeletedAt.Format(model.DateLayout)))
	}

	return strings.Join(parts, " ")
}

func (m Model) renderEmptyState() string {
	style := theme.EmptyStyle.
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	switch m.tab {
	case TabToday:
		return style.Render("Nothing on the board today.\n\nPress n to add a todo.")
	case TabBacklog:
		return style.Render("The backlog is empty.\n\nPress n to add a todo.")
	default:
		return style.Render("No recently deleted todos.")
	}
}
