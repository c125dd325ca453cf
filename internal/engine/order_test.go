package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/dayboard/internal/model"
)

func todo(id string, category model.Category, group string, order int) model.Todo {
	return model.Todo{ID: id, Summary: id, Category: category, Group: group, Order: order}
}

func orderOf(t *testing.T, items []model.Todo, id string) int {
	t.Helper()
	i := indexByID(items, id)
	require.GreaterOrEqual(t, i, 0, "todo %s not found", id)
	return items[i].Order
}

func TestBucketFiltersAndSorts(t *testing.T) {
	now := time.Now()
	deleted := todo("x", model.CategoryBacklog, "Home", 0)
	deleted.DeletedAt = &now

	items := []model.Todo{
		todo("b", model.CategoryBacklog, "Home", 1),
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("c", model.CategoryToday, "Home", 0),
		todo("d", model.CategoryBacklog, "Work", 0),
		deleted,
	}

	bucket := Bucket(items, model.CategoryBacklog, "Home")
	require.Len(t, bucket, 2)
	assert.Equal(t, "a", bucket[0].ID)
	assert.Equal(t, "b", bucket[1].ID)
}

func TestMaxOrder(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 4),
	}
	assert.Equal(t, 4, MaxOrder(items, model.CategoryBacklog, "Home"))
	assert.Equal(t, -1, MaxOrder(items, model.CategoryToday, "Home"))
}

func TestReorderDragOntoLaterItem(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 1),
		todo("c", model.CategoryBacklog, "Home", 2),
	}

	// Dragging the first item onto the last lands it after the last.
	out := ReorderWithinGroup(items, "a", "c")
	assert.Equal(t, 0, orderOf(t, out, "b"))
	assert.Equal(t, 1, orderOf(t, out, "c"))
	assert.Equal(t, 2, orderOf(t, out, "a"))
}

func TestReorderDragOntoEarlierItem(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 1),
		todo("c", model.CategoryBacklog, "Home", 2),
	}

	out := ReorderWithinGroup(items, "c", "a")
	assert.Equal(t, 0, orderOf(t, out, "c"))
	assert.Equal(t, 1, orderOf(t, out, "a"))
	assert.Equal(t, 2, orderOf(t, out, "b"))
}

func TestReorderValidationNoOps(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Work", 0),
	}

	// Self-drop, unknown ids, and cross-bucket targets change nothing.
	assert.Equal(t, items, ReorderWithinGroup(items, "a", "a"))
	assert.Equal(t, items, ReorderWithinGroup(items, "a", "nope"))
	assert.Equal(t, items, ReorderWithinGroup(items, "nope", "a"))
	assert.Equal(t, items, ReorderWithinGroup(items, "a", "b"))
}

func TestReorderDoesNotMutateInput(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 1),
	}

	_ = ReorderWithinGroup(items, "a", "b")
	assert.Equal(t, 0, orderOf(t, items, "a"))
	assert.Equal(t, 1, orderOf(t, items, "b"))
}

func TestMoveAcrossGroupOntoTarget(t *testing.T) {
	items := []model.Todo{
		todo("p0", model.CategoryBacklog, "P", 0),
		todo("p1", model.CategoryBacklog, "P", 1),
		todo("p2", model.CategoryBacklog, "P", 2),
		todo("q0", model.CategoryBacklog, "Q", 0),
		todo("q1", model.CategoryBacklog, "Q", 1),
	}

	out := MoveAcrossGroup(items, "p1", "q1", "Q")

	// Dragged takes the target's rank; the target and everything below
	// shift down one.
	moved := out[indexByID(out, "p1")]
	assert.Equal(t, "Q", moved.Group)
	assert.Equal(t, 1, moved.Order)
	assert.Equal(t, 0, orderOf(t, out, "q0"))
	assert.Equal(t, 2, orderOf(t, out, "q1"))

	// The source bucket re-densifies.
	assert.Equal(t, 0, orderOf(t, out, "p0"))
	assert.Equal(t, 1, orderOf(t, out, "p2"))
}

func TestMoveAcrossGroupToEmptyGroup(t *testing.T) {
	items := []model.Todo{
		todo("p0", model.CategoryBacklog, "P", 0),
		todo("p1", model.CategoryBacklog, "P", 1),
	}

	out := MoveAcrossGroup(items, "p1", "", "Fresh")

	moved := out[indexByID(out, "p1")]
	assert.Equal(t, "Fresh", moved.Group)
	assert.Equal(t, 0, moved.Order)
	assert.Equal(t, 0, orderOf(t, out, "p0"))
}

func TestMoveAcrossGroupUngroupedTarget(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "", 0),
	}

	// The "Ungrouped" display name maps back to the empty stored group.
	out := MoveAcrossGroup(items, "a", "b", model.UngroupedLabel)
	moved := out[indexByID(out, "a")]
	assert.Equal(t, "", moved.Group)
	assert.Equal(t, 0, moved.Order)
	assert.Equal(t, 1, orderOf(t, out, "b"))
}

func TestMoveAcrossGroupSameBucketDelegates(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 1),
	}

	out := MoveAcrossGroup(items, "a", "b", "Home")
	assert.Equal(t, ReorderWithinGroup(items, "a", "b"), out)
}

func TestDensifyClosesGaps(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 2),
		todo("c", model.CategoryBacklog, "Home", 5),
	}

	out := Densify(items, model.CategoryBacklog, "Home")
	assert.Equal(t, 0, orderOf(t, out, "a"))
	assert.Equal(t, 1, orderOf(t, out, "b"))
	assert.Equal(t, 2, orderOf(t, out, "c"))

	// Already dense input comes back unchanged.
	assert.Equal(t, out, Densify(out, model.CategoryBacklog, "Home"))
}

func TestMoveGroupMaterializesUnsavedNames(t *testing.T) {
	// Only "A" has a saved position; dragging the never-moved "C" before
	// it materializes "C" in the order list.
	out := MoveGroup([]string{"A"}, "C", "A", false)
	assert.Equal(t, []string{"C", "A"}, out)
}

func TestMoveGroupInsertAfter(t *testing.T) {
	out := MoveGroup([]string{"A", "B", "C"}, "A", "C", true)
	assert.Equal(t, []string{"B", "C", "A"}, out)
}

func TestMoveGroupInsertBefore(t *testing.T) {
	out := MoveGroup([]string{"A", "B", "C"}, "C", "A", false)
	assert.Equal(t, []string{"C", "A", "B"}, out)
}

func TestMoveGroupBeforeFirst(t *testing.T) {
	out := MoveGroup([]string{"Work", "Personal"}, "Personal", "Work", false)
	assert.Equal(t, []string{"Personal", "Work"}, out)
}

func TestMoveGroupNoOps(t *testing.T) {
	order := []string{"A", "B"}
	assert.Equal(t, order, MoveGroup(order, "A", "A", false))

	// Moving a name before its immediate successor keeps the list stable.
	assert.Equal(t, []string{"A", "B"}, MoveGroup(order, "A", "B", false))
}

// assertDense checks that every (category, group) bucket's live orders
// form exactly 0..n-1.
func assertDense(t *testing.T, items []model.Todo) {
	t.Helper()
	type bucketKey struct {
		category model.Category
		group    string
	}
	seen := make(map[bucketKey]bool)
	for _, item := range items {
		if !item.Live() {
			continue
		}
		key := bucketKey{item.Category, item.Group}
		if seen[key] {
			continue
		}
		seen[key] = true
		bucket := Bucket(items, key.category, key.group)
		for i, member := range bucket {
			assert.Equal(t, i, member.Order,
				"bucket (%s,%q) has non-dense order at %s", key.category, key.group, member.ID)
		}
	}
}

func TestDensityInvariantUnderMixedMoves(t *testing.T) {
	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryBacklog, "Home", 1),
		todo("c", model.CategoryBacklog, "Home", 2),
		todo("d", model.CategoryBacklog, "Work", 0),
		todo("e", model.CategoryBacklog, "Work", 1),
		todo("f", model.CategoryToday, "", 0),
	}

	items = ReorderWithinGroup(items, "a", "c")
	assertDense(t, items)

	items = MoveAcrossGroup(items, "b", "e", "Work")
	assertDense(t, items)

	items = MoveAcrossGroup(items, "d", "f", model.UngroupedLabel)
	assertDense(t, items)

	items = ReorderWithinGroup(items, "e", "b")
	assertDense(t, items)

	items = MoveAcrossGroup(items, "c", "", "Inbox")
	assertDense(t, items)
}

func TestRenameGroupRewritesMembersAndOrder(t *testing.T) {
	now := time.Now()
	deleted := todo("x", model.CategoryBacklog, "Home", 2)
	deleted.DeletedAt = &now

	items := []model.Todo{
		todo("a", model.CategoryBacklog, "Home", 0),
		todo("b", model.CategoryToday, "Home", 0),
		todo("c", model.CategoryBacklog, "Work", 0),
		deleted,
	}
	order := []string{"Home", "Work"}

	outItems, outOrder := RenameGroup(items, order, "Home", "Casa")

	assert.Equal(t, "Casa", outItems[indexByID(outItems, "a")].Group)
	assert.Equal(t, "Casa", outItems[indexByID(outItems, "b")].Group)
	assert.Equal(t, "Work", outItems[indexByID(outItems, "c")].Group)
	// Soft-deleted members keep their stored group.
	assert.Equal(t, "Home", outItems[indexByID(outItems, "x")].Group)
	// The order list keeps the renamed group's position.
	assert.Equal(t, []string{"Casa", "Work"}, outOrder)
}

func TestRenameGroupOntoExistingGroupMerges(t *testing.T) {
	items := []model.Todo{
		todo("h0", model.CategoryBacklog, "Home", 0),
		todo("h1", model.CategoryBacklog, "Home", 1),
		todo("w0", model.CategoryBacklog, "Work", 0),
		todo("w1", model.CategoryBacklog, "Work", 1),
	}
	order := []string{"Home", "Work"}

	outItems, outOrder := RenameGroup(items, order, "Home", "Work")

	// The merged bucket re-densifies to a single contiguous sequence.
	assertDense(t, outItems)
	assert.Equal(t, 0, orderOf(t, outItems, "h0"))
	assert.Equal(t, 1, orderOf(t, outItems, "w0"))
	assert.Equal(t, 2, orderOf(t, outItems, "h1"))
	assert.Equal(t, 3, orderOf(t, outItems, "w1"))
	for _, id := range []string{"h0", "h1"} {
		assert.Equal(t, "Work", outItems[indexByID(outItems, id)].Group)
	}

	// The surviving name appears once in the order list.
	assert.Equal(t, []string{"Work"}, outOrder)
}

func TestRenameGroupToUngrouped(t *testing.T) {
	items := []model.Todo{todo("a", model.CategoryBacklog, "Home", 0)}

	outItems, _ := RenameGroup(items, nil, "Home", model.UngroupedLabel)
	assert.Equal(t, "", outItems[indexByID(outItems, "a")].Group)
}

func TestRenameGroupNoOps(t *testing.T) {
	items := []model.Todo{todo("a", model.CategoryBacklog, "Home", 0)}
	order := []string{"Home"}

	gotItems, gotOrder := RenameGroup(items, order, "Home", "")
	assert.Equal(t, items, gotItems)
	assert.Equal(t, order, gotOrder)

	gotItems, gotOrder = RenameGroup(items, order, "Home", "   ")
	assert.Equal(t, items, gotItems)
	assert.Equal(t, order, gotOrder)

	gotItems, gotOrder = RenameGroup(items, order, "Home", "Home")
	assert.Equal(t, items, gotItems)
	assert.Equal(t, order, gotOrder)
}
