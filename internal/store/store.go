package store

import (
	"context"
	"time"

	"github.com/hqnguyen/dayboard/internal/model"
)

// TodoPatch is a partial update. Nil fields are left untouched; the
// whole patch applies or fails as one write.
type TodoPatch struct {
	Summary     *string
	Description *string
	Completed   *bool
	Category    *model.Category
	DueDate     *string
	Starred     *bool
	RepeatDays  *int
	Group       *string
	Priority    *model.Priority
	Order       *int
	CompletedOn *string
}

// Empty reports whether the patch carries no fields.
func (p TodoPatch) Empty() bool {
	return p.Summary == nil && p.Description == nil && p.Completed == nil &&
		p.Category == nil && p.DueDate == nil && p.Starred == nil &&
		p.RepeatDays == nil && p.Group == nil && p.Priority == nil &&
		p.Order == nil && p.CompletedOn == nil
}

// Repository is the persistence interface the mutation coordinator
// consumes. Implementations offer only point and batch-of-point
// operations; there are no multi-record transactions.
type Repository interface {
	// FetchAll returns every todo owned by the user, soft-deleted rows
	// included, ordered by sort_order ascending. Callers filter.
	FetchAll(ctx context.Context, userID string) ([]model.Todo, error)

	// Insert persists a draft (its ID is ignored) and returns the
	// stored record with the repository-assigned id.
	Insert(ctx context.Context, userID string, draft model.Todo) (model.Todo, error)

	// Patch applies a partial update to a single todo.
	Patch(ctx context.Context, id string, fields TodoPatch) error

	// SoftDelete stamps deleted_at with the current time.
	SoftDelete(ctx context.Context, id string) error

	// PurgeOlderThan permanently removes the user's soft-deleted todos
	// whose deletion predates the cutoff.
	PurgeOlderThan(ctx context.Context, userID string, cutoff time.Time) error

	// GetGroupOrder returns the user's saved group order. A user with
	// no saved order gets an empty list, not an error.
	GetGroupOrder(ctx context.Context, userID string) ([]string, error)

	// SetGroupOrder replaces the user's group order wholesale.
	SetGroupOrder(ctx context.Context, userID string, groups []string) error
}
