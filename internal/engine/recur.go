package engine

import (
	"time"

	"github.com/hqnguyen/dayboard/internal/model"
)

// NextDueDate adds repeatDays calendar days to the completion date.
// Calendar arithmetic rolls over month and year boundaries correctly.
func NextDueDate(completedOn string, repeatDays int) string {
	d, err := time.Parse(model.DateLayout, completedOn)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, repeatDays).Format(model.DateLayout)
}

// FindLiveChild returns the unique live todo spawned by the given
// recurring parent, if one exists.
func FindLiveChild(items []model.Todo, parentID string) (model.Todo, bool) {
	for _, t := range items {
		if t.Live() && t.RecurringParentID == parentID {
			return t, true
		}
	}
	return model.Todo{}, false
}

// SpawnChild builds the follow-up draft for a recurring parent
// completed on the given date. The child inherits the parent's
// summary, description, category, group, priority, and repeat interval;
// it starts incomplete and unstarred, due repeatDays after completion,
// ranked after every live sibling in the parent's bucket. The caller
// must check FindLiveChild first; a parent never has two live children.
func SpawnChild(items []model.Todo, parent model.Todo, completedOn string) model.Todo {
	return model.Todo{
		Summary:           parent.Summary,
		Description:       parent.Description,
		Category:          parent.Category,
		DueDate:           NextDueDate(completedOn, parent.RepeatDays),
		RepeatDays:        parent.RepeatDays,
		Group:             parent.Group,
		Priority:          parent.Priority,
		Order:             MaxOrder(items, parent.Category, parent.Group) + 1,
		RecurringParentID: parent.ID,
	}
}
