package model

import "time"

// Category places a todo on the Today dashboard or in the Backlog.
type Category string

const (
	CategoryToday   Category = "today"
	CategoryBacklog Category = "backlog"
)

// Priority is a bang-notation urgency marker. The empty string means
// "no priority" and sorts below every marked level.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "!"
	PriorityMedium Priority = "!!"
	PriorityHigh   Priority = "!!!"
)

// Weight returns the numeric rank of a priority for sorting.
// Higher is more urgent.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// DateLayout is the ISO calendar-date format used for due dates and
// completion dates throughout the app.
const DateLayout = "2006-01-02"

// UngroupedLabel is the display name shown for todos whose stored group
// is empty. It is never written to storage.
const UngroupedLabel = "Ungrouped"

// DisplayGroup maps a stored group value to its display name.
func DisplayGroup(stored string) string {
	if stored == "" {
		return UngroupedLabel
	}
	return stored
}

// StoredGroup maps a display name back to its stored group value.
func StoredGroup(display string) string {
	if display == UngroupedLabel {
		return ""
	}
	return display
}

// Todo is a task item. Order is a dense 0-based rank scoped to the
// todo's (category, group) bucket; the engine keeps it gap-free after
// every structural mutation.
type Todo struct {
	ID                string     `json:"id" db:"id"`
	Summary           string     `json:"summary" db:"summary"`
	Description       string     `json:"description" db:"description"`
	Completed         bool       `json:"completed" db:"completed"`
	Category          Category   `json:"category" db:"category"`
	DueDate           string     `json:"due_date,omitempty" db:"due_date"`
	Starred           bool       `json:"starred" db:"starred"`
	RepeatDays        int        `json:"repeat_days" db:"repeat_days"`
	Group             string     `json:"group" db:"group_name"`
	Priority          Priority   `json:"priority" db:"priority"`
	Order             int        `json:"order" db:"sort_order"`
	CompletedOn       string     `json:"completed_on,omitempty" db:"completed_on"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	RecurringParentID string     `json:"recurring_parent_id,omitempty" db:"recurring_parent_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Live reports whether the todo has not been soft-deleted.
func (t Todo) Live() bool {
	return t.DeletedAt == nil
}

// DisplayGroup returns the todo's group name for display.
func (t Todo) DisplayGroup() string {
	return DisplayGroup(t.Group)
}

// SameBucket reports whether two todos share a (category, group) bucket.
func (t Todo) SameBucket(other Todo) bool {
	return t.Category == other.Category && t.Group == other.Group
}

// Recurring reports whether completing this todo should spawn a
// follow-up instance.
func (t Todo) Recurring() bool {
	return t.RepeatDays > 0
}
