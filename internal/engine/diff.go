package engine

import "github.com/hqnguyen/dayboard/internal/model"

// ChangedTodos returns the todos in after whose order, group, or
// category differ from their pre-mutation snapshot in before. The
// result is the minimal set a structural move needs to persist.
func ChangedTodos(before, after []model.Todo) []model.Todo {
	prev := make(map[string]model.Todo, len(before))
	for _, t := range before {
		prev[t.ID] = t
	}

	var out []model.Todo
	for _, t := range after {
		p, ok := prev[t.ID]
		if !ok {
			out = append(out, t)
			continue
		}
		if p.Order != t.Order || p.Group != t.Group || p.Category != t.Category {
			out = append(out, t)
		}
	}
	return out
}
