package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerOptimisticIncrementShowsImmediately(t *testing.T) {
	tr := NewTracker()
	tr.Observe(0)
	tr.ApplyOptimisticIncrement()

	assert.Equal(t, 1, tr.Displayed())
	assert.Equal(t, 0, tr.Confirmed())
}

func TestTrackerFreshReadCollapsesDelta(t *testing.T) {
	tr := NewTracker()
	tr.ApplyOptimisticIncrement()
	tr.Observe(1)

	assert.Equal(t, 1, tr.Displayed())
	assert.Equal(t, 1, tr.Confirmed())

	// A later read must not re-count the same correct answer.
	tr.Observe(1)
	assert.Equal(t, 1, tr.Displayed())
}

func TestTrackerStaleReadKeepsDelta(t *testing.T) {
	tr := NewTracker()
	tr.Observe(3)
	tr.ApplyOptimisticIncrement()

	// Poll raced the in-flight submission and still reports 3.
	tr.Observe(3)
	assert.Equal(t, 4, tr.Displayed())

	// Backend catches up.
	tr.Observe(4)
	assert.Equal(t, 4, tr.Displayed())
	assert.Equal(t, 4, tr.Confirmed())
}

func TestTrackerNeverDecreases(t *testing.T) {
	tr := NewTracker()
	tr.Observe(5)
	tr.Observe(2)

	assert.Equal(t, 5, tr.Displayed())
}

func TestTrackerDeltaDoesNotCompound(t *testing.T) {
	tr := NewTracker()
	tr.ApplyOptimisticIncrement()
	tr.ApplyOptimisticIncrement()

	assert.Equal(t, 1, tr.Displayed())
}
