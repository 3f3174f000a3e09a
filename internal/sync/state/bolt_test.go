package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/stacklok/catalog-sync/internal/status"
	"github.com/stacklok/catalog-sync/internal/store"
)

func openTestBolt(t *testing.T, dir string) *bolt.DB {
	t.Helper()
	db, err := store.OpenBoltDB(dir)
	require.NoError(t, err)
	return db
}

func TestBoltTimeTracker(t *testing.T) {
	t.Parallel()

	runTimeTrackerSuite(t, func(t *testing.T) TimeTracker {
		db := openTestBolt(t, t.TempDir())
		t.Cleanup(func() { _ = db.Close() })

		tracker, err := NewBoltTimeTracker(db)
		require.NoError(t, err)
		return tracker
	})
}

func TestBoltTimeTracker_SharesDatabaseWithStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	db := openTestBolt(t, dir)
	records, err := store.NewBoltStore(db)
	require.NoError(t, err)
	tracker, err := NewBoltTimeTracker(db)
	require.NoError(t, err)

	require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, &status.SyncStatus{LastSyncTime: syncTime, ItemCount: 1}))
	require.NoError(t, records.Close())

	reopened := openTestBolt(t, dir)
	t.Cleanup(func() { _ = reopened.Close() })
	tracker, err = NewBoltTimeTracker(reopened)
	require.NoError(t, err)

	got, err := tracker.GetSyncStatus(ctx, upcoming)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ItemCount)
	assert.True(t, syncTime.Equal(got.LastSyncTime))
}
