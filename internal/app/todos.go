package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/session"
)

const commitTimeout = 10 * time.Second

// sessionLoadedMsg reports the initial snapshot load.
type sessionLoadedMsg struct {
	err error
}

// commitDoneMsg reports a settled mutation commit.
type commitDoneMsg struct {
	err error
}

// todoSavedMsg reports a create submitted through the form.
type todoSavedMsg struct {
	err error
}

// loadSession returns a command that loads the persisted todo set.
func (m Model) loadSession() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return sessionLoadedMsg{err: sess.Load(ctx)}
	}
}

// runCommit persists an optimistically applied mutation in the
// background and reports the settled result.
func (m Model) runCommit(commit session.CommitFunc) tea.Cmd {
	if commit == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return commitDoneMsg{err: commit(ctx)}
	}
}

// createTodo returns a command that inserts a new todo and adopts the
// stored record into the snapshot.
func (m Model) createTodo(draft model.Todo) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		_, err := sess.Add(ctx, draft)
		return todoSavedMsg{err: err}
	}
}
