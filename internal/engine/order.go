// Package engine holds the pure ordering, projection, and recurrence
// logic. Every function takes a snapshot of the todo set and returns
// fresh values; inputs are never mutated and nothing here touches
// persistence. Unknown ids and degenerate moves are validation no-ops
// that return the input unchanged.
package engine

import (
	"sort"
	"strings"

	"github.com/hqnguyen/dayboard/internal/model"
)

// cloneTodos returns a shallow copy of the todo slice.
func cloneTodos(items []model.Todo) []model.Todo {
	out := make([]model.Todo, len(items))
	copy(out, items)
	return out
}

// indexByID returns the position of the todo with the given id, or -1.
func indexByID(items []model.Todo, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Bucket returns the live members of a (category, group) bucket sorted
// by their order rank.
func Bucket(items []model.Todo, category model.Category, group string) []model.Todo {
	var out []model.Todo
	for _, t := range items {
		if t.Live() && t.Category == category && t.Group == group {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// MaxOrder returns the highest order rank in a bucket, or -1 if the
// bucket is empty.
func MaxOrder(items []model.Todo, category model.Category, group string) int {
	max := -1
	for _, t := range items {
		if t.Live() && t.Category == category && t.Group == group && t.Order > max {
			max = t.Order
		}
	}
	return max
}

// applyOrders writes the given order ranks back into a copy of items
// and returns it. ranks maps todo id to its new order value.
func applyOrders(items []model.Todo, ranks map[string]int) []model.Todo {
	out := cloneTodos(items)
	for i := range out {
		if r, ok := ranks[out[i].ID]; ok {
			out[i].Order = r
		}
	}
	return out
}

// ReorderWithinGroup moves the dragged todo immediately before the
// target inside their shared (category, group) bucket and re-densifies
// the bucket's order ranks to 0..n-1.
func ReorderWithinGroup(items []model.Todo, draggedID, targetID string) []model.Todo {
	if draggedID == targetID {
		return items
	}
	di := indexByID(items, draggedID)
	ti := indexByID(items, targetID)
	if di < 0 || ti < 0 {
		return items
	}
	dragged, target := items[di], items[ti]
	if !dragged.SameBucket(target) || !dragged.Live() || !target.Live() {
		return items
	}

	// The insertion point is the target's slot in the original
	// sequence, before the dragged item is pulled out. Dragging onto a
	// later item therefore lands after it, onto an earlier item before
	// it, matching pointer drag-and-drop.
	bucket := Bucket(items, dragged.Category, dragged.Group)
	at := len(bucket) - 1
	for i, t := range bucket {
		if t.ID == targetID {
			at = i
			break
		}
	}
	seq := make([]model.Todo, 0, len(bucket))
	for _, t := range bucket {
		if t.ID != draggedID {
			seq = append(seq, t)
		}
	}
	if at > len(seq) {
		at = len(seq)
	}
	seq = append(seq[:at], append([]model.Todo{dragged}, seq[at:]...)...)

	ranks := make(map[string]int, len(seq))
	for i, t := range seq {
		ranks[t.ID] = i
	}
	return applyOrders(items, ranks)
}

// Densify reassigns the bucket's order ranks to 0..n-1, preserving the
// current relative order. Used after a member leaves the bucket.
func Densify(items []model.Todo, category model.Category, group string) []model.Todo {
	ranks := make(map[string]int)
	for i, t := range Bucket(items, category, group) {
		if t.Order != i {
			ranks[t.ID] = i
		}
	}
	if len(ranks) == 0 {
		return items
	}
	return applyOrders(items, ranks)
}

// MoveAcrossGroup moves the dragged todo into the target todo's
// (category, group) bucket, taking the target's rank. Items at or
// below the insertion point shift down one; the source bucket
// re-densifies to 0..n-1 in its remaining relative order. When the
// target bucket is empty the dragged todo lands at rank 0.
func MoveAcrossGroup(items []model.Todo, draggedID, targetID, targetGroupDisplay string) []model.Todo {
	di := indexByID(items, draggedID)
	if di < 0 || !items[di].Live() {
		return items
	}
	dragged := items[di]

	group := model.StoredGroup(targetGroupDisplay)
	category := dragged.Category

	k := 0
	if ti := indexByID(items, targetID); ti >= 0 && items[ti].Live() {
		target := items[ti]
		if dragged.SameBucket(target) {
			return ReorderWithinGroup(items, draggedID, targetID)
		}
		category = target.Category
		for i, t := range Bucket(items, category, group) {
			if t.ID == targetID {
				k = i
				break
			}
		}
	}

	ranks := make(map[string]int)
	for _, t := range Bucket(items, category, group) {
		if t.Order >= k {
			ranks[t.ID] = t.Order + 1
		}
	}
	rank := 0
	for _, t := range Bucket(items, dragged.Category, dragged.Group) {
		if t.ID == draggedID {
			continue
		}
		ranks[t.ID] = rank
		rank++
	}

	out := applyOrders(items, ranks)
	for i := range out {
		if out[i].ID == draggedID {
			out[i].Group = group
			out[i].Category = category
			out[i].Order = k
		}
	}
	return out
}

// MoveGroup repositions draggedGroup before or after targetGroup in the
// ordered list of group display names. Names without an explicit
// position are appended first, so a group that has never been moved
// materializes at the end before the move math runs.
func MoveGroup(order []string, draggedGroup, targetGroup string, insertAfter bool) []string {
	out := make([]string, len(order))
	copy(out, order)
	if draggedGroup == targetGroup {
		return out
	}

	if indexOf(out, draggedGroup) < 0 {
		out = append(out, draggedGroup)
	}
	if indexOf(out, targetGroup) < 0 {
		out = append(out, targetGroup)
	}

	di := indexOf(out, draggedGroup)
	out = append(out[:di], out[di+1:]...)

	// Recomputing the target index after removal compensates for the
	// left shift when the dragged name sat before the insertion point.
	at := indexOf(out, targetGroup)
	if insertAfter {
		at++
	}
	out = append(out[:at], append([]string{draggedGroup}, out[at:]...)...)
	return out
}

// RenameGroup rewrites every live todo whose display group matches
// oldDisplay to the new name and replaces the name in the group order
// list, preserving its position. Renaming onto an existing group's
// name merges the buckets: the merged members are re-densified per
// category and the order list keeps a single entry for the surviving
// name. Renaming to an empty or unchanged name is a no-op.
func RenameGroup(items []model.Todo, order []string, oldDisplay, newDisplay string) ([]model.Todo, []string) {
	newDisplay = strings.TrimSpace(newDisplay)
	if newDisplay == "" || newDisplay == oldDisplay {
		return items, order
	}

	stored := model.StoredGroup(newDisplay)
	outItems := cloneTodos(items)
	for i := range outItems {
		if outItems[i].Live() && outItems[i].DisplayGroup() == oldDisplay {
			outItems[i].Group = stored
		}
	}
	outItems = Densify(outItems, model.CategoryToday, stored)
	outItems = Densify(outItems, model.CategoryBacklog, stored)

	outOrder := make([]string, len(order))
	copy(outOrder, order)
	if i := indexOf(outOrder, oldDisplay); i >= 0 {
		if indexOf(outOrder, newDisplay) >= 0 {
			outOrder = append(outOrder[:i], outOrder[i+1:]...)
		} else {
			outOrder[i] = newDisplay
		}
	}
	return outItems, outOrder
}

func indexOf(list []string, name string) int {
	for i, s := range list {
		if s == name {
			return i
		}
	}
	return -1
}
