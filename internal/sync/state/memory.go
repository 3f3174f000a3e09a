package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

type memoryTimeTracker struct {
	mu       sync.RWMutex
	statuses map[listing.Category]*status.SyncStatus
}

// NewMemoryTimeTracker creates a tracker that forgets everything on restart
func NewMemoryTimeTracker() TimeTracker {
	return &memoryTimeTracker{statuses: make(map[listing.Category]*status.SyncStatus)}
}

func (m *memoryTimeTracker) GetSyncStatus(_ context.Context, category listing.Category) (*status.SyncStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[category].Copy(), nil
}

func (m *memoryTimeTracker) UpdateSyncStatus(_ context.Context, category listing.Category, syncStatus *status.SyncStatus) error {
	if syncStatus == nil {
		return fmt.Errorf("sync status cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[category] = syncStatus.Copy()
	return nil
}

func (m *memoryTimeTracker) ListSyncStatuses(_ context.Context) (map[listing.Category]*status.SyncStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyStatuses(m.statuses), nil
}

func copyStatuses(in map[listing.Category]*status.SyncStatus) map[listing.Category]*status.SyncStatus {
	out := make(map[listing.Category]*status.SyncStatus, len(in))
	for category, s := range in {
		if s != nil {
			out[category] = s.Copy()
		}
	}
	return out
}
