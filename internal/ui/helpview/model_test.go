package helpview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hqnguyen/dayboard/internal/keys"
)

func TestViewListsAllBindingGroups(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 40)

	out := m.View()

	for _, heading := range []string{"Navigate", "Todos", "Drag", "Groups", "General"} {
		assert.Contains(t, out, heading)
	}

	// The board-specific actions surface with their descriptions, not
	// just the generic navigation keys.
	assert.Contains(t, out, "drag up")
	assert.Contains(t, out, "drag down")
	assert.Contains(t, out, "move to next group")
	assert.Contains(t, out, "rename group")
	assert.Contains(t, out, "toggle complete")
}
