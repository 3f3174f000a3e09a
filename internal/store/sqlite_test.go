package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
)

func newSQLiteStore(t *testing.T, dir string) *SQLiteStore {
	t.Helper()
	db, err := OpenSQLite(dir)
	require.NoError(t, err)
	s, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return s
}

func TestSQLiteStore_InMemory(t *testing.T) {
	t.Parallel()

	runRecordStoreSuite(t, func(t *testing.T) RecordStore {
		s := newSQLiteStore(t, "")
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLiteStore_File(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	records := listing.ToRecords(listing.NewTestRemoteItems("movie", 2), upcoming, "gen-1", fetchedAt)

	s := newSQLiteStore(t, dir)
	require.NoError(t, s.InsertAll(ctx, upcoming, records))
	require.NoError(t, s.Close())

	reopened := newSQLiteStore(t, dir)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, upcoming)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}
