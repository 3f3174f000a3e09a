package storage

import (
	"context"
	"log/slog"

	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/state"
)

// MemoryFactory creates components that keep everything in process memory
type MemoryFactory struct{}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates a new in-memory storage factory
func NewMemoryFactory() *MemoryFactory {
	slog.Info("Creating in-memory storage factory")
	return &MemoryFactory{}
}

// CreateRecordStore creates an in-memory record store
func (*MemoryFactory) CreateRecordStore(_ context.Context) (store.RecordStore, error) {
	return store.NewMemoryStore(), nil
}

// CreateTimeTracker creates an in-memory time tracker
func (*MemoryFactory) CreateTimeTracker(_ context.Context) (state.TimeTracker, error) {
	return state.NewMemoryTimeTracker(), nil
}

// Cleanup is a no-op for memory storage
func (*MemoryFactory) Cleanup() {}
