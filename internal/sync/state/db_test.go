package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/database"
)

func TestDBTimeTracker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, cleanup := database.SetupTestDBContainer(ctx, t)
	t.Cleanup(cleanup)

	runTimeTrackerSuite(t, func(t *testing.T) TimeTracker {
		_, err := pool.Exec(ctx, "TRUNCATE category_syncs")
		require.NoError(t, err)
		return NewDBTimeTracker(pool)
	})
}
