package engine

import (
	"math"
	"sort"
	"time"

	"github.com/hqnguyen/dayboard/internal/model"
)

// DeletedRetention is how long a soft-deleted todo remains visible in
// the deleted view before housekeeping may purge it.
const DeletedRetention = 30 * 24 * time.Hour

// NextUpLimit caps the "next up" bucket on the today dashboard.
const NextUpLimit = 3

// GroupRank returns the position of a display group name in the user's
// saved group order. Names with no explicit position rank after every
// saved name.
func GroupRank(name string, order []string) int {
	for i, g := range order {
		if g == name {
			return i
		}
	}
	return math.MaxInt
}

// sortPrimary orders todos by priority descending, then group rank
// ascending, then order rank ascending. The sort is stable so unranked
// groups keep their relative input order.
func sortPrimary(items []model.Todo, order []string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if aw, bw := a.Priority.Weight(), b.Priority.Weight(); aw != bw {
			return aw > bw
		}
		if ar, br := GroupRank(a.DisplayGroup(), order), GroupRank(b.DisplayGroup(), order); ar != br {
			return ar < br
		}
		return a.Order < b.Order
	})
}

// TodayView holds the four mutually exclusive buckets of the today
// dashboard.
type TodayView struct {
	StarredDue     []model.Todo
	Scheduled      []model.Todo
	NextUp         []model.Todo
	CompletedToday []model.Todo
}

// Empty reports whether all four buckets are empty.
func (v TodayView) Empty() bool {
	return len(v.StarredDue) == 0 &&
		len(v.Scheduled) == 0 &&
		len(v.NextUp) == 0 &&
		len(v.CompletedToday) == 0
}

// ProjectToday derives the today dashboard from the full todo set.
// today is the current calendar date in ISO form; the due filter is
// overdue-inclusive (dueDate <= today).
func ProjectToday(items []model.Todo, order []string, today string) TodayView {
	var v TodayView
	for _, t := range items {
		if !t.Live() {
			continue
		}
		due := t.DueDate != "" && t.DueDate <= today
		switch {
		case !t.Completed && t.Starred && due:
			v.StarredDue = append(v.StarredDue, t)
		case !t.Completed && !t.Starred && due:
			v.Scheduled = append(v.Scheduled, t)
		case !t.Completed && t.DueDate == "":
			v.NextUp = append(v.NextUp, t)
		case t.Completed && t.CompletedOn == today:
			v.CompletedToday = append(v.CompletedToday, t)
		}
	}

	sortPrimary(v.StarredDue, order)
	sortPrimary(v.Scheduled, order)

	// Next up: starred first, then the primary comparator, capped.
	sortPrimary(v.NextUp, order)
	sort.SliceStable(v.NextUp, func(i, j int) bool {
		return v.NextUp[i].Starred && !v.NextUp[j].Starred
	})
	if len(v.NextUp) > NextUpLimit {
		v.NextUp = v.NextUp[:NextUpLimit]
	}

	sort.SliceStable(v.CompletedToday, func(i, j int) bool {
		a, b := v.CompletedToday[i], v.CompletedToday[j]
		if ag, bg := a.DisplayGroup(), b.DisplayGroup(); ag != bg {
			return ag < bg
		}
		return a.Order < b.Order
	})

	return v
}

// GroupSection is one display group's members within a backlog
// partition, sorted by order rank.
type GroupSection struct {
	Name  string
	Todos []model.Todo
}

// BacklogView splits the live todo set into active and completed group
// sections. Completed sections render collapsed below the active ones.
type BacklogView struct {
	Active []GroupSection
	Done   []GroupSection
}

// ProjectBacklog derives the backlog view: live todos partitioned into
// incomplete and completed, grouped by display name with members in
// order rank, sections ordered by group rank with first-appearance
// order breaking ties.
func ProjectBacklog(items []model.Todo, order []string) BacklogView {
	return BacklogView{
		Active: groupSections(items, order, false),
		Done:   groupSections(items, order, true),
	}
}

func groupSections(items []model.Todo, order []string, completed bool) []GroupSection {
	byName := make(map[string]*GroupSection)
	var names []string
	for _, t := range items {
		if !t.Live() || t.Completed != completed {
			continue
		}
		name := t.DisplayGroup()
		sec, ok := byName[name]
		if !ok {
			sec = &GroupSection{Name: name}
			byName[name] = sec
			names = append(names, name)
		}
		sec.Todos = append(sec.Todos, t)
	}

	sort.SliceStable(names, func(i, j int) bool {
		return GroupRank(names[i], order) < GroupRank(names[j], order)
	})

	out := make([]GroupSection, 0, len(names))
	for _, name := range names {
		sec := byName[name]
		sort.SliceStable(sec.Todos, func(i, j int) bool {
			return sec.Todos[i].Order < sec.Todos[j].Order
		})
		out = append(out, *sec)
	}
	return out
}

// ProjectDeleted returns soft-deleted todos still inside the retention
// window. The window is evaluated against now on every call; it is a
// sliding filter, not a flag.
func ProjectDeleted(items []model.Todo, now time.Time) []model.Todo {
	var out []model.Todo
	for _, t := range items {
		if t.DeletedAt != nil && now.Sub(*t.DeletedAt) <= DeletedRetention {
			out = append(out, t)
		}
	}
	return out
}
