package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/dayboard/internal/model"
)

const today = "2026-08-28"

func ids(items []model.Todo) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.ID
	}
	return out
}

func TestGroupRank(t *testing.T) {
	order := []string{"Work", "Home"}
	assert.Equal(t, 0, GroupRank("Work", order))
	assert.Equal(t, 1, GroupRank("Home", order))
	assert.Equal(t, math.MaxInt, GroupRank("Errands", order))
	assert.Equal(t, math.MaxInt, GroupRank("Work", nil))
}

func TestProjectTodayBuckets(t *testing.T) {
	now := time.Now()
	gone := todo("gone", model.CategoryToday, "", 0)
	gone.DueDate = today
	gone.DeletedAt = &now

	starredDue := todo("starred-due", model.CategoryToday, "", 0)
	starredDue.Starred = true
	starredDue.DueDate = today

	overdue := todo("overdue", model.CategoryToday, "", 1)
	overdue.DueDate = "2026-08-01"

	future := todo("future", model.CategoryToday, "", 2)
	future.DueDate = "2026-09-15"

	nextUp := todo("next-up", model.CategoryBacklog, "", 0)

	doneToday := todo("done-today", model.CategoryToday, "", 3)
	doneToday.Completed = true
	doneToday.CompletedOn = today

	doneEarlier := todo("done-earlier", model.CategoryToday, "", 4)
	doneEarlier.Completed = true
	doneEarlier.CompletedOn = "2026-08-27"

	view := ProjectToday(
		[]model.Todo{gone, starredDue, overdue, future, nextUp, doneToday, doneEarlier},
		nil, today,
	)

	assert.Equal(t, []string{"starred-due"}, ids(view.StarredDue))
	// The due filter is overdue-inclusive; future dates sit in no bucket.
	assert.Equal(t, []string{"overdue"}, ids(view.Scheduled))
	assert.Equal(t, []string{"next-up"}, ids(view.NextUp))
	assert.Equal(t, []string{"done-today"}, ids(view.CompletedToday))
}

func TestProjectTodayPrimarySort(t *testing.T) {
	low := todo("low", model.CategoryToday, "Work", 0)
	low.DueDate = today
	low.Priority = model.PriorityLow

	high := todo("high", model.CategoryToday, "Home", 1)
	high.DueDate = today
	high.Priority = model.PriorityHigh

	rankedGroup := todo("ranked", model.CategoryToday, "Home", 2)
	rankedGroup.DueDate = today
	rankedGroup.Priority = model.PriorityLow

	view := ProjectToday(
		[]model.Todo{low, high, rankedGroup},
		[]string{"Home", "Work"}, today,
	)

	// Priority descending, then group rank, then order rank.
	assert.Equal(t, []string{"high", "ranked", "low"}, ids(view.Scheduled))
}

func TestProjectTodayNextUpCapAndStarredFirst(t *testing.T) {
	var items []model.Todo
	for i, id := range []string{"a", "b", "c", "d"} {
		items = append(items, todo(id, model.CategoryBacklog, "", i))
	}
	items[3].Starred = true

	view := ProjectToday(items, nil, today)

	require.Len(t, view.NextUp, NextUpLimit)
	assert.Equal(t, []string{"d", "a", "b"}, ids(view.NextUp))
}

func TestProjectTodayCompletedSort(t *testing.T) {
	first := todo("b-group", model.CategoryToday, "Beta", 0)
	first.Completed = true
	first.CompletedOn = today

	second := todo("a-group-late", model.CategoryToday, "Alpha", 1)
	second.Completed = true
	second.CompletedOn = today

	third := todo("a-group-early", model.CategoryToday, "Alpha", 0)
	third.Completed = true
	third.CompletedOn = today

	view := ProjectToday([]model.Todo{first, second, third}, nil, today)

	// Lexicographic by display group, then order rank.
	assert.Equal(t, []string{"a-group-early", "a-group-late", "b-group"}, ids(view.CompletedToday))
}

func TestProjectTodayIsPure(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "", 0),
		todo("b", model.CategoryBacklog, "", 1),
	}

	before := cloneTodos(items)
	first := ProjectToday(items, nil, today)
	second := ProjectToday(items, nil, today)

	assert.Equal(t, before, items)
	assert.Equal(t, first, second)
}

func TestProjectBacklogSections(t *testing.T) {
	items := []model.Todo{
		todo("w1", model.CategoryBacklog, "Work", 1),
		todo("w0", model.CategoryBacklog, "Work", 0),
		todo("h0", model.CategoryBacklog, "Home", 0),
		todo("u0", model.CategoryBacklog, "", 0),
	}
	done := todo("w-done", model.CategoryBacklog, "Work", 2)
	done.Completed = true
	items = append(items, done)

	view := ProjectBacklog(items, []string{"Home"})

	require.Len(t, view.Active, 3)
	// Ranked groups first, unranked keep first-appearance order.
	assert.Equal(t, "Home", view.Active[0].Name)
	assert.Equal(t, "Work", view.Active[1].Name)
	assert.Equal(t, model.UngroupedLabel, view.Active[2].Name)
	assert.Equal(t, []string{"w0", "w1"}, ids(view.Active[1].Todos))

	require.Len(t, view.Done, 1)
	assert.Equal(t, "Work", view.Done[0].Name)
	assert.Equal(t, []string{"w-done"}, ids(view.Done[0].Todos))
}

func TestProjectDeletedSlidingWindow(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)
	stale := now.Add(-31 * 24 * time.Hour)

	inside := todo("inside", model.CategoryBacklog, "", 0)
	inside.DeletedAt = &recent
	outside := todo("outside", model.CategoryBacklog, "", 1)
	outside.DeletedAt = &stale
	live := todo("live", model.CategoryBacklog, "", 2)

	out := ProjectDeleted([]model.Todo{inside, outside, live}, now)
	assert.Equal(t, []string{"inside"}, ids(out))
}
