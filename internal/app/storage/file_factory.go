package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"
	"gorm.io/gorm"

	"github.com/stacklok/catalog-sync/internal/status"
	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/state"
)

// statusDirName is the directory under the data dir holding per-category status files
const statusDirName = "status"

func ensureDataDir(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return nil
}

// BoltFactory creates components sharing one bbolt database file.
// Records and sync status live in separate buckets of the same file.
type BoltFactory struct {
	db        *bolt.DB
	closeOnce sync.Once
}

var _ Factory = (*BoltFactory)(nil)

// NewBoltFactory opens the bbolt database under dataDir
func NewBoltFactory(dataDir string) (*BoltFactory, error) {
	if err := ensureDataDir(dataDir); err != nil {
		return nil, err
	}
	db, err := store.OpenBoltDB(dataDir)
	if err != nil {
		return nil, err
	}

	slog.Info("Creating bolt storage factory", "path", filepath.Join(dataDir, store.BoltFileName))
	return &BoltFactory{db: db}, nil
}

// CreateRecordStore creates a bbolt record store
func (f *BoltFactory) CreateRecordStore(_ context.Context) (store.RecordStore, error) {
	return store.NewBoltStore(f.db)
}

// CreateTimeTracker creates a bbolt time tracker in the same database
func (f *BoltFactory) CreateTimeTracker(_ context.Context) (state.TimeTracker, error) {
	return state.NewBoltTimeTracker(f.db)
}

// Cleanup closes the bbolt database
func (f *BoltFactory) Cleanup() {
	f.closeOnce.Do(func() {
		slog.Debug("Closing bolt database")
		if err := f.db.Close(); err != nil {
			slog.Warn("Failed to close bolt database", "error", err)
		}
	})
}

// SQLiteFactory creates a SQLite record store and a file based time tracker
type SQLiteFactory struct {
	db *gorm.DB

	statusPersistence status.StatusPersistence
	closeOnce         sync.Once
}

var _ Factory = (*SQLiteFactory)(nil)

// NewSQLiteFactory opens the SQLite database under dataDir
func NewSQLiteFactory(dataDir string) (*SQLiteFactory, error) {
	if err := ensureDataDir(dataDir); err != nil {
		return nil, err
	}
	db, err := store.OpenSQLite(dataDir)
	if err != nil {
		return nil, err
	}

	slog.Info("Creating sqlite storage factory", "data_dir", dataDir)
	return &SQLiteFactory{
		db:                db,
		statusPersistence: status.NewFileStatusPersistence(filepath.Join(dataDir, statusDirName)),
	}, nil
}

// CreateRecordStore creates the SQLite record store
func (f *SQLiteFactory) CreateRecordStore(_ context.Context) (store.RecordStore, error) {
	return store.NewSQLiteStore(f.db)
}

// CreateTimeTracker creates a time tracker writing one status file per category
func (f *SQLiteFactory) CreateTimeTracker(ctx context.Context) (state.TimeTracker, error) {
	return state.NewFileTimeTracker(ctx, f.statusPersistence)
}

// Cleanup closes the SQLite database
func (f *SQLiteFactory) Cleanup() {
	f.closeOnce.Do(func() {
		sqlDB, err := f.db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Warn("Failed to close sqlite database", "error", err)
		}
	})
}
