package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayGroupMapping(t *testing.T) {
	assert.Equal(t, "Ungrouped", DisplayGroup(""))
	assert.Equal(t, "Errands", DisplayGroup("Errands"))

	assert.Equal(t, "", StoredGroup("Ungrouped"))
	assert.Equal(t, "Errands", StoredGroup("Errands"))

	// Round-trips in both directions.
	assert.Equal(t, "", StoredGroup(DisplayGroup("")))
	assert.Equal(t, "Work", DisplayGroup(StoredGroup("Work")))
}

func TestPriorityWeightOrdering(t *testing.T) {
	assert.Greater(t, PriorityHigh.Weight(), PriorityMedium.Weight())
	assert.Greater(t, PriorityMedium.Weight(), PriorityLow.Weight())
	assert.Greater(t, PriorityLow.Weight(), PriorityNone.Weight())
	assert.Equal(t, 0, Priority("bogus").Weight())
}

func TestTodoPredicates(t *testing.T) {
	now := time.Now()

	live := Todo{ID: "a", Category: CategoryBacklog, Group: "Home"}
	assert.True(t, live.Live())

	gone := Todo{ID: "b", DeletedAt: &now}
	assert.False(t, gone.Live())

	assert.True(t, live.SameBucket(Todo{Category: CategoryBacklog, Group: "Home"}))
	assert.False(t, live.SameBucket(Todo{Category: CategoryToday, Group: "Home"}))
	assert.False(t, live.SameBucket(Todo{Category: CategoryBacklog, Group: "Work"}))

	assert.False(t, live.Recurring())
	assert.True(t, Todo{RepeatDays: 7}.Recurring())

	assert.Equal(t, "Ungrouped", Todo{}.DisplayGroup())
	assert.Equal(t, "Home", live.DisplayGroup())
}
