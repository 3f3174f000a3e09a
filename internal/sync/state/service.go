// Package state tracks when each category was last refreshed from its source.
package state

import (
	"context"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

// TimeTracker records the sync status of each category.
//
//go:generate mockgen -destination=mocks/mock_time_tracker.go -package=mocks github.com/stacklok/catalog-sync/internal/sync/state TimeTracker
type TimeTracker interface {
	// GetSyncStatus returns a copy of the status of category, or nil, nil
	// when the category has never been refreshed successfully.
	GetSyncStatus(ctx context.Context, category listing.Category) (*status.SyncStatus, error)
	// UpdateSyncStatus overwrites the status of category.
	UpdateSyncStatus(ctx context.Context, category listing.Category, syncStatus *status.SyncStatus) error
	// ListSyncStatuses returns copies of all known statuses.
	ListSyncStatuses(ctx context.Context) (map[listing.Category]*status.SyncStatus, error)
}
