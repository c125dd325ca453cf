package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hqnguyen/dayboard/internal/model"
)

// SQLiteStore implements the Repository interface using a local SQLite
// database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const todoColumns = `id, user_id, summary, description, completed, category,
	due_date, starred, repeat_days, group_name, priority, sort_order,
	completed_on, deleted_at, recurring_parent_id, created_at, updated_at`

// FetchAll returns all of the user's todos ordered by sort_order,
// soft-deleted rows included.
func (s *SQLiteStore) FetchAll(ctx context.Context, userID string) ([]model.Todo, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id = ? ORDER BY sort_order",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// Insert persists a new todo and returns the stored record with its
// assigned id.
func (s *SQLiteStore) Insert(ctx context.Context, userID string, draft model.Todo) (model.Todo, error) {
	if strings.TrimSpace(draft.Summary) == "" {
		return model.Todo{}, fmt.Errorf("todo summary must not be empty")
	}

	draft.ID = uuid.New().String()
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if draft.Category == "" {
		draft.Category = model.CategoryBacklog
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, user_id, summary, description, completed, category,
			due_date, starred, repeat_days, group_name, priority, sort_order,
			completed_on, deleted_at, recurring_parent_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, userID, draft.Summary, draft.Description,
		boolToInt(draft.Completed), string(draft.Category),
		draft.DueDate, boolToInt(draft.Starred), draft.RepeatDays,
		draft.Group, string(draft.Priority), draft.Order,
		draft.CompletedOn, draft.DeletedAt, draft.RecurringParentID,
		draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return draft, nil
}

// Patch applies a partial update to a single todo. The whole call
// fails if the write fails; there is no partial-field application.
func (s *SQLiteStore) Patch(ctx context.Context, id string, fields TodoPatch) error {
	if fields.Empty() {
		return nil
	}

	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if fields.Summary != nil {
		add("summary", *fields.Summary)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.Completed != nil {
		add("completed", boolToInt(*fields.Completed))
	}
	if fields.Category != nil {
		add("category", string(*fields.Category))
	}
	if fields.DueDate != nil {
		add("due_date", *fields.DueDate)
	}
	if fields.Starred != nil {
		add("starred", boolToInt(*fields.Starred))
	}
	if fields.RepeatDays != nil {
		add("repeat_days", *fields.RepeatDays)
	}
	if fields.Group != nil {
		add("group_name", *fields.Group)
	}
	if fields.Priority != nil {
		add("priority", string(*fields.Priority))
	}
	if fields.Order != nil {
		add("sort_order", *fields.Order)
	}
	if fields.CompletedOn != nil {
		add("completed_on", *fields.CompletedOn)
	}
	add("updated_at", time.Now().UTC())

	query := "UPDATE todos SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patching todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// SoftDelete stamps the todo's deleted_at with the current time.
func (s *SQLiteStore) SoftDelete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET deleted_at = ?, updated_at = ? WHERE id = ?",
		time.Now().UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// PurgeOlderThan permanently removes soft-deleted todos whose deletion
// predates the cutoff.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, userID string, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM todos WHERE user_id = ? AND deleted_at IS NOT NULL AND deleted_at < ?",
		userID, cutoff.UTC(),
	)
	if err != nil {
		return fmt.Errorf("purging deleted todos: %w", err)
	}
	return nil
}

// GetGroupOrder returns the user's saved group order, or an empty list
// if none has been saved yet.
func (s *SQLiteStore) GetGroupOrder(ctx context.Context, userID string) ([]string, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw,
		"SELECT groups FROM group_orders WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying group order: %w", err)
	}

	var groups []string
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, fmt.Errorf("unmarshaling group order: %w", err)
	}
	return groups, nil
}

// SetGroupOrder replaces the user's group order wholesale.
func (s *SQLiteStore) SetGroupOrder(ctx context.Context, userID string, groups []string) error {
	if groups == nil {
		groups = []string{}
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshaling group order: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO group_orders (user_id, groups, updated_at)
		VALUES (?, ?, ?)`,
		userID, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving group order: %w", err)
	}
	return nil
}

// scanTodo scans a todo row from sqlx.Rows.
func scanTodo(rows *sqlx.Rows) (model.Todo, error) {
	var (
		todo      model.Todo
		userID    string
		completed int
		starred   int
		category  string
		priority  string
		deletedAt *time.Time
	)

	err := rows.Scan(
		&todo.ID, &userID, &todo.Summary, &todo.Description,
		&completed, &category,
		&todo.DueDate, &starred, &todo.RepeatDays,
		&todo.Group, &priority, &todo.Order,
		&todo.CompletedOn, &deletedAt, &todo.RecurringParentID,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}

	todo.Completed = completed != 0
	todo.Starred = starred != 0
	todo.Category = model.Category(category)
	todo.Priority = model.Priority(priority)
	todo.DeletedAt = deletedAt

	return todo, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
