package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	runRecordStoreSuite(t, func(t *testing.T) RecordStore {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	records := listing.ToRecords(listing.NewTestRemoteItems("movie", 1), upcoming, "gen-1", fetchedAt)
	require.NoError(t, s.InsertAll(ctx, upcoming, records))

	records[0].GenreIDs[0] = -1
	got, err := s.Get(ctx, upcoming)
	require.NoError(t, err)
	assert.NotEqual(t, -1, got[0].GenreIDs[0])

	got[0].Title = "changed"
	again, err := s.Get(ctx, upcoming)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Title)
}

func TestMemoryStore_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, err := s.Count(ctx, upcoming)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Get(ctx, upcoming)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.DeleteAll(ctx, upcoming), ErrClosed)
	assert.ErrorIs(t, s.InsertAll(ctx, upcoming, nil), ErrClosed)
}
