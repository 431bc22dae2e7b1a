package warnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Run("renders the operator template", func(t *testing.T) {
		c := New()
		c.Collect("tenant.rdss.r1", "nodes", "Missing or empty 'nodes'.")

		assert.Equal(t, []string{
			"WARNING: Entity 'tenant.rdss.r1' - Field 'nodes': Missing or empty 'nodes'.",
		}, c.Snapshot())
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		c := New()
		c.Collectf("b", "f", "second %d", 2)
		c.Collect("a", "f", "first")

		entries := c.Entries()
		assert.Equal(t, "b", entries[0].EntityID)
		assert.Equal(t, "second 2", entries[0].Message)
		assert.Equal(t, "a", entries[1].EntityID)
	})

	t.Run("snapshot is detached", func(t *testing.T) {
		c := New()
		c.Collect("a", "f", "m")
		snap := c.Snapshot()
		c.Collect("b", "f", "m")

		assert.Len(t, snap, 1)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("clear empties the log", func(t *testing.T) {
		c := New()
		c.Collect("a", "f", "m")
		c.Clear()

		assert.Empty(t, c.Snapshot())
		assert.Equal(t, 0, c.Len())
	})
}
