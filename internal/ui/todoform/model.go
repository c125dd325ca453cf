package todoform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/store"
	"github.com/hqnguyen/dayboard/internal/theme"
)

// TodoCreatedMsg is dispatched when a new todo is submitted via the form.
type TodoCreatedMsg struct {
	Todo model.Todo
}

// TodoUpdatedMsg carries the edited fields of an existing todo.
type TodoUpdatedMsg struct {
	ID     string
	Fields store.TodoPatch
}

// TodoFormCancelMsg is dispatched when the user cancels the form.
type TodoFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	summary     string
	description string
	category    model.Category
	priority    model.Priority
	dueDate     string
	repeatDays  string
	group       string
	starred     bool
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	orig     model.Todo
	width    int
	height   int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{category: model.CategoryBacklog},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new todo.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.orig = model.Todo{}
	*m.fb = formBindings{category: model.CategoryBacklog}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing todo.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editMode = true
	m.orig = todo
	*m.fb = formBindings{
		summary:     todo.Summary,
		description: todo.Description,
		category:    todo.Category,
		priority:    todo.Priority,
		dueDate:     todo.DueDate,
		group:       todo.Group,
		starred:     todo.Starred,
	}
	if todo.RepeatDays > 0 {
		m.fb.repeatDays = strconv.Itoa(todo.RepeatDays)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Summary").
			Placeholder("What needs to be done?").
			Value(&m.fb.summary).
			Validate(validateRequired("Summary")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[model.Category]().
			Title("Category").
			Options(
				huh.NewOption("Backlog", model.CategoryBacklog),
				huh.NewOption("Today", model.CategoryToday),
			).
			Value(&m.fb.category),
		huh.NewSelect[model.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("None", model.PriorityNone),
				huh.NewOption("! Low", model.PriorityLow),
				huh.NewOption("!! Medium", model.PriorityMedium),
				huh.NewOption("!!! High", model.PriorityHigh),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Repeat Every (days)").
			Placeholder("0 = does not repeat").
			Value(&m.fb.repeatDays).
			Validate(validateOptionalDays),
		huh.NewInput().
			Title("Group").
			Placeholder("Leave empty for Ungrouped").
			Value(&m.fb.group),
		huh.NewConfirm().
			Title("Starred").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.starred),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	summary := strings.TrimSpace(m.fb.summary)
	repeatDays := 0
	if v := strings.TrimSpace(m.fb.repeatDays); v != "" {
		repeatDays, _ = strconv.Atoi(v)
	}
	group := model.StoredGroup(strings.TrimSpace(m.fb.group))

	if m.editMode {
		fields := m.diffPatch(summary, repeatDays, group)
		id := m.orig.ID
		return func() tea.Msg { return TodoUpdatedMsg{ID: id, Fields: fields} }
	}

	todo := model.Todo{
		Summary:     summary,
		Description: m.fb.description,
		Category:    m.fb.category,
		Priority:    m.fb.priority,
		DueDate:     strings.TrimSpace(m.fb.dueDate),
		RepeatDays:  repeatDays,
		Group:       group,
		Starred:     m.fb.starred,
	}
	return func() tea.Msg { return TodoCreatedMsg{Todo: todo} }
}

// diffPatch builds the minimal patch between the original todo and the
// submitted field values. Category and group changes route through the
// move machinery instead, so an edit form submit never reorders buckets
// behind the user's back; they are still included here for direct edits.
func (m Model) diffPatch(summary string, repeatDays int, group string) store.TodoPatch {
	var p store.TodoPatch
	if summary != m.orig.Summary {
		p.Summary = &summary
	}
	if m.fb.description != m.orig.Description {
		v := m.fb.description
		p.Description = &v
	}
	if m.fb.category != m.orig.Category {
		v := m.fb.category
		p.Category = &v
	}
	if m.fb.priority != m.orig.Priority {
		v := m.fb.priority
		p.Priority = &v
	}
	if due := strings.TrimSpace(m.fb.dueDate); due != m.orig.DueDate {
		p.DueDate = &due
	}
	if repeatDays != m.orig.RepeatDays {
		p.RepeatDays = &repeatDays
	}
	if group != m.orig.Group {
		p.Group = &group
	}
	if m.fb.starred != m.orig.Starred {
		v := m.fb.starred
		p.Starred = &v
	}
	return p
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalDays(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative number of days")
	}
	return nil
}
