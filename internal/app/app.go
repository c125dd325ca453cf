// Package app is the root Bubble Tea model: it routes between the
// board, the todo form, and the help overlay, and runs mutation
// commits off the render loop.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hqnguyen/dayboard/internal/keys"
	"github.com/hqnguyen/dayboard/internal/session"
	"github.com/hqnguyen/dayboard/internal/ui"
	"github.com/hqnguyen/dayboard/internal/ui/boardview"
	"github.com/hqnguyen/dayboard/internal/ui/helpview"
	"github.com/hqnguyen/dayboard/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
	ViewTodoCreate
	ViewTodoEdit
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the mutation session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	sess         *session.Session
	keys         *keys.KeyMap
	board        boardview.Model
	helpView     helpview.Model
	formView     todoform.Model
	ready        bool
	loaded       bool
	statusError  string
}

// New creates the root application model bound to the session.
func New(sess *session.Session) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewBoard,
		sess:        sess,
		keys:        k,
		board:       boardview.New(sess, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		formView:    todoform.New(80, 24),
	}
}

// Init loads the persisted todo set before the first render.
func (m Model) Init() tea.Cmd {
	return m.loadSession()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.board.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.board.Refresh()
		// Forward to the active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionLoadedMsg:
		if msg.err != nil {
			m.statusError = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.loaded = true
		m.board.Refresh()
		return m, nil

	case boardview.MutationMsg:
		m.statusError = ""
		return m, m.runCommit(msg.Commit)

	case commitDoneMsg:
		// A failed commit has already rolled the snapshot back; the
		// board re-reads it either way.
		if msg.err != nil {
			m.statusError = fmt.Sprintf("save failed: %v", msg.err)
		}
		m.board.Refresh()
		return m, nil

	case boardview.NewTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewTodoCreate
		return m, m.formView.StartCreate()

	case boardview.EditTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewTodoEdit
		return m, m.formView.StartEdit(msg.Todo)

	case todoform.TodoCreatedMsg:
		m.currentView = ViewBoard
		return m, m.createTodo(msg.Todo)

	case todoform.TodoUpdatedMsg:
		m.currentView = ViewBoard
		commit := m.sess.Update(msg.ID, msg.Fields)
		m.board.Refresh()
		if commit == nil {
			return m, nil
		}
		return m, m.runCommit(commit)

	case todoform.TodoFormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case todoSavedMsg:
		if msg.err != nil {
			m.statusError = fmt.Sprintf("save failed: %v", msg.err)
		}
		m.board.Refresh()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of sub-view focus.
// Returns handled=false when the key should fall through to the active
// view, which is always the case while a form owns the input.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	if m.currentView == ViewTodoCreate || m.currentView == ViewTodoEdit {
		return nil, false
	}
	if m.board.Renaming() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewBoard {
			return tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return nil, true

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}

	case "1":
		m.currentView = ViewBoard
		m.board.SetTab(boardview.TabToday)
		return nil, true

	case "2":
		m.currentView = ViewBoard
		m.board.SetTab(boardview.TabBacklog)
		return nil, true

	case "3":
		m.currentView = ViewBoard
		m.board.SetTab(boardview.TabDeleted)
		return nil, true
	}

	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.board, cmd = m.board.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewTodoCreate, ViewTodoEdit:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Dayboard", m.tabTitle())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.board.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTodoCreate, ViewTodoEdit:
		return m.formView.View()
	default:
		return ""
	}
}

// tabTitle names the active board tab for the header's right edge.
func (m Model) tabTitle() string {
	switch m.board.Tab() {
	case boardview.TabToday:
		return "Today"
	case boardview.TabBacklog:
		return "Backlog"
	default:
		return "Deleted"
	}
}

// keyHints returns keyboard shortcut hints for the status bar. A
// persistence failure replaces the hints until the next mutation.
func (m Model) keyHints() string {
	if m.statusError != "" && m.currentView == ViewBoard {
		return m.statusError
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTodoCreate, ViewTodoEdit:
		return "enter submit | esc cancel"
	default:
		if m.board.Renaming() {
			return "enter rename | esc cancel"
		}
		switch m.board.Tab() {
		case boardview.TabBacklog:
			return "q quit | ? help | n new | x done | J/K drag | m group | R rename"
		case boardview.TabDeleted:
			return "q quit | ? help | 1 today | 2 backlog"
		default:
			return "q quit | ? help | n new | x done | s star | d delete"
		}
	}
}
