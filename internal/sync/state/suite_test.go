package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

const (
	upcoming listing.Category = "upcoming"
	popular  listing.Category = "popular"
)

var syncTime = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

// runTimeTrackerSuite checks the behaviour every TimeTracker must share.
// newTracker must return an empty tracker.
func runTimeTrackerSuite(t *testing.T, newTracker func(t *testing.T) TimeTracker) {
	t.Helper()

	t.Run("absent status is nil", func(t *testing.T) {
		tracker := newTracker(t)

		got, err := tracker.GetSyncStatus(context.Background(), upcoming)
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := tracker.ListSyncStatuses(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("update then get", func(t *testing.T) {
		ctx := context.Background()
		tracker := newTracker(t)

		require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, &status.SyncStatus{
			LastSyncTime: syncTime,
			ItemCount:    3,
			Generation:   "gen-1",
		}))

		got, err := tracker.GetSyncStatus(ctx, upcoming)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, syncTime.Equal(got.LastSyncTime))
		assert.Equal(t, 3, got.ItemCount)
		assert.Equal(t, "gen-1", got.Generation)

		other, err := tracker.GetSyncStatus(ctx, popular)
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("update overwrites", func(t *testing.T) {
		ctx := context.Background()
		tracker := newTracker(t)

		require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, &status.SyncStatus{LastSyncTime: syncTime, ItemCount: 3}))
		later := syncTime.Add(25 * time.Hour)
		require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, &status.SyncStatus{LastSyncTime: later, ItemCount: 5}))

		got, err := tracker.GetSyncStatus(ctx, upcoming)
		require.NoError(t, err)
		assert.True(t, later.Equal(got.LastSyncTime))
		assert.Equal(t, 5, got.ItemCount)
	})

	t.Run("list returns every category", func(t *testing.T) {
		ctx := context.Background()
		tracker := newTracker(t)

		require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, &status.SyncStatus{LastSyncTime: syncTime, ItemCount: 1}))
		require.NoError(t, tracker.UpdateSyncStatus(ctx, popular, &status.SyncStatus{LastSyncTime: syncTime, ItemCount: 2}))

		all, err := tracker.ListSyncStatuses(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, 1, all[upcoming].ItemCount)
		assert.Equal(t, 2, all[popular].ItemCount)
	})

	t.Run("returned status is a copy", func(t *testing.T) {
		ctx := context.Background()
		tracker := newTracker(t)

		in := &status.SyncStatus{LastSyncTime: syncTime, ItemCount: 3}
		require.NoError(t, tracker.UpdateSyncStatus(ctx, upcoming, in))
		in.ItemCount = 99

		got, err := tracker.GetSyncStatus(ctx, upcoming)
		require.NoError(t, err)
		got.ItemCount = 42

		again, err := tracker.GetSyncStatus(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, 3, again.ItemCount)
	})

	t.Run("nil status is rejected", func(t *testing.T) {
		tracker := newTracker(t)
		assert.Error(t, tracker.UpdateSyncStatus(context.Background(), upcoming, nil))
	})
}
