package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hqnguyen/dayboard/internal/model"
)

func TestNextDueDate(t *testing.T) {
	assert.Equal(t, "2026-02-14", NextDueDate("2026-02-07", 7))

	// Calendar arithmetic rolls over month and year boundaries.
	assert.Equal(t, "2026-02-02", NextDueDate("2026-01-28", 5))
	assert.Equal(t, "2027-01-02", NextDueDate("2026-12-30", 3))
	assert.Equal(t, "2026-03-01", NextDueDate("2026-02-28", 1))

	assert.Equal(t, "", NextDueDate("not-a-date", 7))
	assert.Equal(t, "", NextDueDate("", 7))
}

func TestFindLiveChild(t *testing.T) {
	now := time.Now()
	retracted := todo("old-child", model.CategoryBacklog, "", 1)
	retracted.RecurringParentID = "parent"
	retracted.DeletedAt = &now

	child := todo("child", model.CategoryBacklog, "", 2)
	child.RecurringParentID = "parent"

	items := []model.Todo{
		todo("parent", model.CategoryBacklog, "", 0),
		retracted,
		child,
	}

	got, ok := FindLiveChild(items, "parent")
	assert.True(t, ok)
	assert.Equal(t, "child", got.ID)

	_, ok = FindLiveChild(items, "other")
	assert.False(t, ok)
}

func TestSpawnChild(t *testing.T) {
	parent := model.Todo{
		ID:          "parent",
		Summary:     "water plants",
		Description: "the ones on the balcony",
		Category:    model.CategoryToday,
		Group:       "Home",
		Priority:    model.PriorityMedium,
		RepeatDays:  7,
		Starred:     true,
		Completed:   true,
		CompletedOn: "2026-02-07",
	}
	items := []model.Todo{
		{ID: "parent", Category: model.CategoryToday, Group: "Home", Order: 0},
		{ID: "sibling", Category: model.CategoryToday, Group: "Home", Order: 1},
	}

	child := SpawnChild(items, parent, "2026-02-07")

	assert.Equal(t, "water plants", child.Summary)
	assert.Equal(t, "the ones on the balcony", child.Description)
	assert.Equal(t, model.CategoryToday, child.Category)
	assert.Equal(t, "Home", child.Group)
	assert.Equal(t, model.PriorityMedium, child.Priority)
	assert.Equal(t, 7, child.RepeatDays)
	assert.Equal(t, "2026-02-14", child.DueDate)
	assert.Equal(t, "parent", child.RecurringParentID)

	// The child starts fresh at the end of the parent's bucket.
	assert.False(t, child.Completed)
	assert.False(t, child.Starred)
	assert.Empty(t, child.CompletedOn)
	assert.Equal(t, 2, child.Order)
}
