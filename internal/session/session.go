// Package session owns the live todo snapshot and sequences every
// state-changing action as optimistic local update, asynchronous
// persistence, rollback on failure. Nothing else mutates the snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hqnguyen/dayboard/internal/engine"
	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/store"
)

// CommitFunc persists an already-applied mutation. A nil CommitFunc
// means the mutation was a validation no-op with nothing to persist.
// On persistence failure the commit reverts exactly the fields the
// failed call was responsible for and returns the per-call errors
// joined together.
type CommitFunc func(context.Context) error

// PersistError reports a single record's failed write inside a batch.
type PersistError struct {
	ID  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting todo %s: %v", e.ID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Session is the mutation coordinator. Mutation methods apply the new
// state synchronously and hand back a CommitFunc; the caller runs the
// commit off the hot path (the TUI wraps it in a tea.Cmd). The mutex
// only guards snapshot access while commits are in flight; all engine
// computation is synchronous and lock-free.
type Session struct {
	mu         sync.Mutex
	repo       store.Repository
	userID     string
	logger     *log.Logger
	now        func() time.Time
	retention  time.Duration
	todos      []model.Todo
	groupOrder []string
}

// New creates a session for the given user. A nil logger discards
// failure reports.
func New(repo store.Repository, userID string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		repo:      repo,
		userID:    userID,
		logger:    logger,
		now:       time.Now,
		retention: engine.DeletedRetention,
	}
}

// SetRetention overrides how long soft-deleted todos survive the
// session-start purge. The deleted view's visibility window is fixed;
// this only moves the physical cleanup cutoff.
func (s *Session) SetRetention(d time.Duration) {
	if d > 0 {
		s.retention = d
	}
}

// Load fetches the full todo set and group order, and runs the
// retention purge as session-start housekeeping.
func (s *Session) Load(ctx context.Context) error {
	cutoff := s.now().Add(-s.retention)
	if err := s.repo.PurgeOlderThan(ctx, s.userID, cutoff); err != nil {
		// Housekeeping failure is not fatal; stale rows just linger.
		s.logger.Warn("purging deleted todos", "err", err)
	}

	todos, err := s.repo.FetchAll(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("loading todos: %w", err)
	}
	order, err := s.repo.GetGroupOrder(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("loading group order: %w", err)
	}

	s.mu.Lock()
	s.todos = todos
	s.groupOrder = order
	s.mu.Unlock()
	return nil
}

// Todos returns a copy of the live snapshot, soft-deleted rows included.
func (s *Session) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// GroupOrder returns a copy of the user's group order list.
func (s *Session) GroupOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.groupOrder))
	copy(out, s.groupOrder)
	return out
}

// Today projects the today dashboard from the current snapshot.
func (s *Session) Today() engine.TodayView {
	return engine.ProjectToday(s.Todos(), s.GroupOrder(), s.todayDate())
}

// Backlog projects the backlog view from the current snapshot.
func (s *Session) Backlog() engine.BacklogView {
	return engine.ProjectBacklog(s.Todos(), s.GroupOrder())
}

// Deleted projects the recoverable soft-deleted todos.
func (s *Session) Deleted() []model.Todo {
	return engine.ProjectDeleted(s.Todos(), s.now())
}

func (s *Session) todayDate() string {
	return s.now().Format(model.DateLayout)
}

// find returns the index of a live todo in the snapshot, or -1.
// Callers hold the mutex.
func (s *Session) find(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id && s.todos[i].Live() {
			return i
		}
	}
	return -1
}

// Add creates a todo at the end of its (category, group) bucket. The
// repository assigns the id, so this is the one mutation that is not
// optimistic: the server-returned record is adopted as-is.
func (s *Session) Add(ctx context.Context, draft model.Todo) (model.Todo, error) {
	s.mu.Lock()
	draft.Order = engine.MaxOrder(s.todos, draft.Category, draft.Group) + 1
	s.mu.Unlock()

	created, err := s.repo.Insert(ctx, s.userID, draft)
	if err != nil {
		return model.Todo{}, fmt.Errorf("adding todo: %w", err)
	}

	s.mu.Lock()
	s.todos = append(s.todos, created)
	s.mu.Unlock()
	return created, nil
}

// ToggleComplete flips a todo's completion state and drives the
// recurrence machine: completing a recurring todo spawns its follow-up
// instance, un-completing retracts the live child. Unknown ids are a
// no-op.
func (s *Session) ToggleComplete(id string) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}

	prev := s.todos[i]
	completed := !prev.Completed
	completedOn := ""
	if completed {
		completedOn = s.todayDate()
	}
	s.todos[i].Completed = completed
	s.todos[i].CompletedOn = completedOn

	var spawn *model.Todo
	var retractID string
	var before, retractChanged []model.Todo
	if prev.Recurring() {
		if completed {
			if _, ok := engine.FindLiveChild(s.todos, id); !ok {
				draft := engine.SpawnChild(s.todos, s.todos[i], completedOn)
				spawn = &draft
			}
		} else if child, ok := engine.FindLiveChild(s.todos, id); ok {
			retractID = child.ID
			before = s.snapshotLocked()
			now := s.now()
			for j := range s.todos {
				if s.todos[j].ID == child.ID {
					s.todos[j].DeletedAt = &now
				}
			}
			// The retracted child leaves a hole in its bucket.
			s.todos = engine.Densify(s.todos, child.Category, child.Group)
			retractChanged = engine.ChangedTodos(before, s.todos)
		}
	}

	parentPatch := store.TodoPatch{Completed: &completed, CompletedOn: &completedOn}

	return func(ctx context.Context) error {
		var errs []error

		if err := s.repo.Patch(ctx, id, parentPatch); err != nil {
			s.mu.Lock()
			if j := s.find(id); j >= 0 {
				s.todos[j].Completed = prev.Completed
				s.todos[j].CompletedOn = prev.CompletedOn
			}
			s.mu.Unlock()
			s.logger.Error("toggling todo", "id", id, "err", err)
			errs = append(errs, &PersistError{ID: id, Err: err})
		}

		if spawn != nil {
			created, err := s.repo.Insert(ctx, s.userID, *spawn)
			if err != nil {
				s.logger.Error("spawning recurring todo", "parent", id, "err", err)
				errs = append(errs, &PersistError{ID: id, Err: err})
			} else {
				s.mu.Lock()
				s.todos = append(s.todos, created)
				s.mu.Unlock()
			}
		}

		if retractID != "" {
			if err := s.repo.SoftDelete(ctx, retractID); err != nil {
				s.mu.Lock()
				for j := range s.todos {
					if s.todos[j].ID == retractID {
						s.todos[j].DeletedAt = nil
					}
				}
				s.mu.Unlock()
				s.logger.Error("retracting recurring todo", "id", retractID, "err", err)
				errs = append(errs, &PersistError{ID: retractID, Err: err})
			}
			if err := s.persistStructural(ctx, before, retractChanged); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	}
}

// Delete soft-deletes a todo and re-densifies its bucket. Unknown ids
// are a no-op.
func (s *Session) Delete(id string) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}

	target := s.todos[i]
	before := s.snapshotLocked()
	now := s.now()
	s.todos[i].DeletedAt = &now
	s.todos = engine.Densify(s.todos, target.Category, target.Group)
	changed := engine.ChangedTodos(before, s.todos)

	return func(ctx context.Context) error {
		var errs []error

		if err := s.repo.SoftDelete(ctx, id); err != nil {
			s.mu.Lock()
			for j := range s.todos {
				if s.todos[j].ID == id {
					s.todos[j].DeletedAt = nil
				}
			}
			s.mu.Unlock()
			s.logger.Error("deleting todo", "id", id, "err", err)
			errs = append(errs, &PersistError{ID: id, Err: err})
		}

		if err := s.persistStructural(ctx, before, changed); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
}

// Update applies a partial field edit. Completion state changes go
// through ToggleComplete, which owns the recurrence side effects. An
// edit that changes the todo's (category, group) bucket places it at
// the end of the new bucket and re-densifies the old one.
func (s *Session) Update(id string, fields store.TodoPatch) CommitFunc {
	if fields.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}

	prev := s.todos[i]
	before := s.snapshotLocked()

	if fields.Group != nil || fields.Category != nil {
		category := prev.Category
		if fields.Category != nil {
			category = *fields.Category
		}
		group := prev.Group
		if fields.Group != nil {
			group = *fields.Group
		}
		if category != prev.Category || group != prev.Group {
			order := engine.MaxOrder(s.todos, category, group) + 1
			fields.Order = &order
		}
	}

	revert := snapshotPatch(prev, fields)
	applyPatch(&s.todos[i], fields)
	if fields.Order != nil {
		s.todos = engine.Densify(s.todos, prev.Category, prev.Group)
	}
	changed := engine.ChangedTodos(before, s.todos)

	return func(ctx context.Context) error {
		var errs []error

		if err := s.repo.Patch(ctx, id, fields); err != nil {
			s.mu.Lock()
			if j := s.find(id); j >= 0 {
				applyPatch(&s.todos[j], revert)
			}
			s.mu.Unlock()
			s.logger.Error("updating todo", "id", id, "err", err)
			errs = append(errs, &PersistError{ID: id, Err: err})
		}

		// The edited todo's own write is handled above; the structural
		// batch covers the old bucket's re-densified neighbors.
		var neighbors []model.Todo
		for _, t := range changed {
			if t.ID != id {
				neighbors = append(neighbors, t)
			}
		}
		if err := s.persistStructural(ctx, before, neighbors); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
}

// Reorder moves the dragged todo immediately before the target within
// their shared bucket.
func (s *Session) Reorder(draggedID, targetID string) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	after := engine.ReorderWithinGroup(before, draggedID, targetID)
	changed := engine.ChangedTodos(before, after)
	if len(changed) == 0 {
		return nil
	}
	s.todos = after

	return func(ctx context.Context) error {
		return s.persistStructural(ctx, before, changed)
	}
}

// Move drags a todo onto a target in a different (category, group)
// bucket, or to the end of an empty group when the target id is not
// found.
func (s *Session) Move(draggedID, targetID, targetGroupDisplay string) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	after := engine.MoveAcrossGroup(before, draggedID, targetID, targetGroupDisplay)
	changed := engine.ChangedTodos(before, after)
	if len(changed) == 0 {
		return nil
	}
	s.todos = after

	return func(ctx context.Context) error {
		return s.persistStructural(ctx, before, changed)
	}
}

// MoveGroup repositions a group in the user's saved order. The result
// persists wholesale as the new group-order document.
func (s *Session) MoveGroup(draggedGroup, targetGroup string, insertAfter bool) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.groupOrder
	next := engine.MoveGroup(prev, draggedGroup, targetGroup, insertAfter)
	if equalStrings(prev, next) {
		return nil
	}
	s.groupOrder = next

	return func(ctx context.Context) error {
		if err := s.repo.SetGroupOrder(ctx, s.userID, next); err != nil {
			s.mu.Lock()
			s.groupOrder = prev
			s.mu.Unlock()
			s.logger.Error("saving group order", "err", err)
			return fmt.Errorf("saving group order: %w", err)
		}
		return nil
	}
}

// RenameGroup renames a display group across every live member and the
// saved order. Any persistence failure reverts both the item set and
// the group order to their pre-rename snapshot.
func (s *Session) RenameGroup(oldDisplay, newDisplay string) CommitFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	beforeItems := s.snapshotLocked()
	beforeOrder := s.groupOrder

	items, order := engine.RenameGroup(beforeItems, beforeOrder, oldDisplay, newDisplay)

	// Renaming onto an existing group merges buckets, so members may
	// pick up new order ranks along with the new group name.
	type write struct {
		id    string
		patch store.TodoPatch
	}
	var writes []write
	for i := range items {
		if p := structuralPatch(beforeItems[i], items[i]); !p.Empty() {
			writes = append(writes, write{id: items[i].ID, patch: p})
		}
	}
	orderChanged := !equalStrings(beforeOrder, order)
	if len(writes) == 0 && !orderChanged {
		return nil
	}

	s.todos = items
	s.groupOrder = order

	return func(ctx context.Context) error {
		var errs []error
		for _, w := range writes {
			if err := s.repo.Patch(ctx, w.id, w.patch); err != nil {
				errs = append(errs, &PersistError{ID: w.id, Err: err})
			}
		}
		if orderChanged {
			if err := s.repo.SetGroupOrder(ctx, s.userID, order); err != nil {
				errs = append(errs, fmt.Errorf("saving group order: %w", err))
			}
		}

		if len(errs) > 0 {
			s.mu.Lock()
			s.todos = beforeItems
			s.groupOrder = beforeOrder
			s.mu.Unlock()
			s.logger.Error("renaming group", "from", oldDisplay, "to", newDisplay, "errs", len(errs))
			return errors.Join(errs...)
		}
		return nil
	}
}

// persistStructural writes a structural diff as independent per-item
// patches, waits for the whole batch to settle, and reverts exactly
// the failed items' fields from the pre-mutation snapshot. Partial
// batch failure is expected, not exceptional.
func (s *Session) persistStructural(ctx context.Context, before, changed []model.Todo) error {
	if len(changed) == 0 {
		return nil
	}

	prev := make(map[string]model.Todo, len(before))
	for _, t := range before {
		prev[t.ID] = t
	}

	type result struct {
		todo  model.Todo
		patch store.TodoPatch
		err   error
	}

	results := make([]result, len(changed))
	var wg sync.WaitGroup
	for i, t := range changed {
		patch := structuralPatch(prev[t.ID], t)
		results[i] = result{todo: t, patch: patch}
		if patch.Empty() {
			continue
		}
		wg.Add(1)
		go func(i int, id string, patch store.TodoPatch) {
			defer wg.Done()
			results[i].err = s.repo.Patch(ctx, id, patch)
		}(i, t.ID, patch)
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.err == nil {
			continue
		}
		s.mu.Lock()
		for j := range s.todos {
			if s.todos[j].ID == r.todo.ID {
				applyPatch(&s.todos[j], snapshotPatch(prev[r.todo.ID], r.patch))
			}
		}
		s.mu.Unlock()
		s.logger.Error("persisting reorder", "id", r.todo.ID, "err", r.err)
		errs = append(errs, &PersistError{ID: r.todo.ID, Err: r.err})
	}
	return errors.Join(errs...)
}

// structuralPatch builds the minimal patch between two versions of a
// todo, covering the fields a move can change.
func structuralPatch(before, after model.Todo) store.TodoPatch {
	var p store.TodoPatch
	if before.Order != after.Order {
		o := after.Order
		p.Order = &o
	}
	if before.Group != after.Group {
		g := after.Group
		p.Group = &g
	}
	if before.Category != after.Category {
		c := after.Category
		p.Category = &c
	}
	return p
}

// snapshotPatch captures the pre-mutation values of exactly the fields
// a patch touches, so a failed write can revert them.
func snapshotPatch(t model.Todo, p store.TodoPatch) store.TodoPatch {
	var out store.TodoPatch
	if p.Summary != nil {
		v := t.Summary
		out.Summary = &v
	}
	if p.Description != nil {
		v := t.Description
		out.Description = &v
	}
	if p.Completed != nil {
		v := t.Completed
		out.Completed = &v
	}
	if p.Category != nil {
		v := t.Category
		out.Category = &v
	}
	if p.DueDate != nil {
		v := t.DueDate
		out.DueDate = &v
	}
	if p.Starred != nil {
		v := t.Starred
		out.Starred = &v
	}
	if p.RepeatDays != nil {
		v := t.RepeatDays
		out.RepeatDays = &v
	}
	if p.Group != nil {
		v := t.Group
		out.Group = &v
	}
	if p.Priority != nil {
		v := t.Priority
		out.Priority = &v
	}
	if p.Order != nil {
		v := t.Order
		out.Order = &v
	}
	if p.CompletedOn != nil {
		v := t.CompletedOn
		out.CompletedOn = &v
	}
	return out
}

// applyPatch writes a patch's fields into a todo.
func applyPatch(t *model.Todo, p store.TodoPatch) {
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Starred != nil {
		t.Starred = *p.Starred
	}
	if p.RepeatDays != nil {
		t.RepeatDays = *p.RepeatDays
	}
	if p.Group != nil {
		t.Group = *p.Group
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.CompletedOn != nil {
		t.CompletedOn = *p.CompletedOn
	}
}

// snapshotLocked copies the todo slice. Callers hold the mutex.
func (s *Session) snapshotLocked() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
