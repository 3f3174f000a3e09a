package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/database"
	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
	"github.com/stacklok/catalog-sync/internal/store"
)

// exerciseFamily writes a record and a status through the factory components
// and reads them back
func exerciseFamily(t *testing.T, f Factory) {
	t.Helper()
	ctx := context.Background()

	recordStore, err := f.CreateRecordStore(ctx)
	require.NoError(t, err)
	tracker, err := f.CreateTimeTracker(ctx)
	require.NoError(t, err)

	records := listing.ToRecords(listing.NewTestRemoteItems("movie", 2), "upcoming", "gen-1", time.Now().UTC())
	require.NoError(t, recordStore.InsertAll(ctx, "upcoming", records))
	require.NoError(t, tracker.UpdateSyncStatus(ctx, "upcoming", &status.SyncStatus{
		LastSyncTime: time.Now().UTC(),
		ItemCount:    2,
		Generation:   "gen-1",
	}))

	count, err := recordStore.Count(ctx, "upcoming")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := tracker.GetSyncStatus(ctx, "upcoming")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ItemCount)
}

func TestNewStorageFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		storageType string
		wantType    any
	}{
		{name: "default is memory", storageType: "", wantType: &MemoryFactory{}},
		{name: "memory", storageType: config.StorageTypeMemory, wantType: &MemoryFactory{}},
		{name: "bolt", storageType: config.StorageTypeBolt, wantType: &BoltFactory{}},
		{name: "sqlite", storageType: config.StorageTypeSQLite, wantType: &SQLiteFactory{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Storage: &config.StorageConfig{Type: tt.storageType, DataDir: t.TempDir()}}
			f, err := NewStorageFactory(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(f.Cleanup)

			assert.IsType(t, tt.wantType, f)
			exerciseFamily(t, f)
		})
	}
}

func TestNewStorageFactory_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewStorageFactory(context.Background(), nil)
	assert.ErrorContains(t, err, "config cannot be nil")

	_, err = NewStorageFactory(context.Background(), &config.Config{Storage: &config.StorageConfig{Type: "s3"}})
	assert.ErrorContains(t, err, "unknown storage type: s3")

	_, err = NewStorageFactory(context.Background(), &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeDatabase}})
	assert.ErrorContains(t, err, "database configuration is required")
}

func TestBoltFactory_PersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	first, err := NewBoltFactory(dir)
	require.NoError(t, err)
	exerciseFamily(t, first)
	first.Cleanup()
	first.Cleanup()

	second, err := NewBoltFactory(dir)
	require.NoError(t, err)
	t.Cleanup(second.Cleanup)

	recordStore, err := second.CreateRecordStore(ctx)
	require.NoError(t, err)
	count, err := recordStore.Count(ctx, "upcoming")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	tracker, err := second.CreateTimeTracker(ctx)
	require.NoError(t, err)
	got, err := tracker.GetSyncStatus(ctx, "upcoming")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestSQLiteFactory_WritesStatusFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := NewSQLiteFactory(dir)
	require.NoError(t, err)
	t.Cleanup(f.Cleanup)

	exerciseFamily(t, f)
	assert.FileExists(t, filepath.Join(dir, store.SQLiteFileName))

	statuses, err := status.NewFileStatusPersistence(filepath.Join(dir, statusDirName)).LoadAllStatus(context.Background())
	require.NoError(t, err)
	assert.Contains(t, statuses, "upcoming")
}

func TestDatabaseFactory(t *testing.T) {
	t.Parallel()

	pool, cleanup := database.SetupTestDBContainer(context.Background(), t)
	t.Cleanup(cleanup)

	exerciseFamily(t, newDatabaseFactoryWithPool(pool))
}
