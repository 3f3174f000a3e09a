package app

import (
	"github.com/stacklok/catalog-sync/internal/app/storage"
	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator serves category listings
	Coordinator coordinator.Coordinator

	// Warmer refreshes stale categories in the background (optional)
	Warmer *coordinator.Warmer

	// RecordStore is the cache backing the coordinator
	RecordStore store.RecordStore

	// StorageFactory owns the storage connections
	StorageFactory storage.Factory
}
