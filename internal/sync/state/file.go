package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

// fileTimeTracker persists statuses through a StatusPersistence and serves
// reads from an in-memory copy loaded at startup. It assumes a single process
// owns the status directory.
type fileTimeTracker struct {
	statusPersistence status.StatusPersistence

	mu             sync.RWMutex
	cachedStatuses map[listing.Category]*status.SyncStatus
}

// NewFileTimeTracker loads every persisted status and returns the tracker
func NewFileTimeTracker(ctx context.Context, statusPersistence status.StatusPersistence) (TimeTracker, error) {
	loaded, err := statusPersistence.LoadAllStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync statuses: %w", err)
	}

	cached := make(map[listing.Category]*status.SyncStatus, len(loaded))
	for name, s := range loaded {
		if s == nil {
			continue
		}
		cached[listing.Category(name)] = s
		slog.Debug("Loaded sync status",
			"category", name,
			"last_sync_time", s.LastSyncTime,
			"item_count", s.ItemCount,
		)
	}

	return &fileTimeTracker{
		statusPersistence: statusPersistence,
		cachedStatuses:    cached,
	}, nil
}

func (f *fileTimeTracker) GetSyncStatus(_ context.Context, category listing.Category) (*status.SyncStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cachedStatuses[category].Copy(), nil
}

func (f *fileTimeTracker) UpdateSyncStatus(ctx context.Context, category listing.Category, syncStatus *status.SyncStatus) error {
	if syncStatus == nil {
		return fmt.Errorf("sync status cannot be nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.statusPersistence.SaveStatus(ctx, string(category), syncStatus); err != nil {
		return err
	}
	f.cachedStatuses[category] = syncStatus.Copy()
	return nil
}

func (f *fileTimeTracker) ListSyncStatuses(_ context.Context) (map[listing.Category]*status.SyncStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyStatuses(f.cachedStatuses), nil
}
