package state

import "testing"

func TestMemoryTimeTracker(t *testing.T) {
	t.Parallel()

	runTimeTrackerSuite(t, func(*testing.T) TimeTracker {
		return NewMemoryTimeTracker()
	})
}
