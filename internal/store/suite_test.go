package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
)

const (
	upcoming = listing.Category("upcoming")
	popular  = listing.Category("popular")
)

var fetchedAt = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

// runRecordStoreSuite checks the behaviour every RecordStore must share
func runRecordStoreSuite(t *testing.T, newStore func(t *testing.T) RecordStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty category", func(t *testing.T) {
		s := newStore(t)

		count, err := s.Count(ctx, upcoming)
		require.NoError(t, err)
		assert.Zero(t, count)

		records, err := s.Get(ctx, upcoming)
		require.NoError(t, err)
		assert.Empty(t, records)

		assert.NoError(t, s.DeleteAll(ctx, upcoming), "deleting an empty category is not an error")
	})

	t.Run("insert then get preserves fields and order", func(t *testing.T) {
		s := newStore(t)
		want := listing.ToRecords(listing.NewTestRemoteItems("movie", 5), upcoming, "gen-1", fetchedAt)

		require.NoError(t, s.InsertAll(ctx, upcoming, want))

		count, err := s.Count(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, 5, count)

		got, err := s.Get(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("categories are isolated", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertAll(ctx, upcoming,
			listing.ToRecords(listing.NewTestRemoteItems("up", 3), upcoming, "gen-1", fetchedAt)))
		// the same ids under another category are independent rows
		require.NoError(t, s.InsertAll(ctx, popular,
			listing.ToRecords(listing.NewTestRemoteItems("up", 2), popular, "gen-2", fetchedAt)))

		require.NoError(t, s.DeleteAll(ctx, popular))

		count, err := s.Count(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = s.Count(ctx, popular)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("insert does not deduplicate", func(t *testing.T) {
		s := newStore(t)
		batch := listing.ToRecords(listing.NewTestRemoteItems("movie", 2), upcoming, "gen-1", fetchedAt)

		require.NoError(t, s.InsertAll(ctx, upcoming, batch))
		require.NoError(t, s.InsertAll(ctx, upcoming, batch))

		count, err := s.Count(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		got, err := s.Get(ctx, upcoming)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, 0, got[0].Position)
		assert.Equal(t, 0, got[1].Position)
		assert.Equal(t, 1, got[3].Position)
	})

	t.Run("records are ordered by position", func(t *testing.T) {
		s := newStore(t)
		records := listing.ToRecords(listing.NewTestRemoteItems("movie", 3), upcoming, "gen-1", fetchedAt)
		reversed := []listing.Record{records[2], records[1], records[0]}

		require.NoError(t, s.InsertAll(ctx, upcoming, reversed))

		got, err := s.Get(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("delete then reinsert", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertAll(ctx, upcoming,
			listing.ToRecords(listing.NewTestRemoteItems("old", 4), upcoming, "gen-1", fetchedAt)))
		require.NoError(t, s.DeleteAll(ctx, upcoming))

		fresh := listing.ToRecords(listing.NewTestRemoteItems("new", 2), upcoming, "gen-2", fetchedAt.Add(time.Hour))
		require.NoError(t, s.InsertAll(ctx, upcoming, fresh))

		got, err := s.Get(ctx, upcoming)
		require.NoError(t, err)
		assert.Equal(t, fresh, got)
	})

	t.Run("inserting nothing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertAll(ctx, upcoming, nil))

		count, err := s.Count(ctx, upcoming)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
