// Package storage creates the storage-dependent components of the application.
// A Factory creates the record store and the time tracker as a family, so both
// always live in the same backend.
package storage

import (
	"context"
	"fmt"

	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/state"
)

//go:generate mockgen -destination=mocks/mock_factory.go -package=mocks -source=factory.go Factory

// Factory creates storage-dependent components as a family
type Factory interface {
	// CreateRecordStore creates the store holding the category records
	CreateRecordStore(ctx context.Context) (store.RecordStore, error)

	// CreateTimeTracker creates the tracker of the per-category sync status
	CreateTimeTracker(ctx context.Context) (state.TimeTracker, error)

	// Cleanup releases any resources held by this factory.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type
func NewStorageFactory(ctx context.Context, cfg *config.Config) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeMemory:
		return NewMemoryFactory(), nil
	case config.StorageTypeBolt:
		return NewBoltFactory(cfg.GetDataDir())
	case config.StorageTypeSQLite:
		return NewSQLiteFactory(cfg.GetDataDir())
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}
