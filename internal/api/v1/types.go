package v1

import (
	"time"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status"`
}

// CategoriesResponse lists the configured categories
type CategoriesResponse struct {
	Categories []listing.Category `json:"categories"`
}

// ItemsResponse is the listing of one category
type ItemsResponse struct {
	Category listing.Category `json:"category"`
	Items    []listing.Item   `json:"items"`
}

// CategoryStatus is the sync status of one category
type CategoryStatus struct {
	Category     listing.Category `json:"category"`
	Synced       bool             `json:"synced"`
	LastSyncTime *time.Time       `json:"last_sync_time,omitempty"`
	ItemCount    int              `json:"item_count"`
	Generation   string           `json:"generation,omitempty"`
}

// StatusResponse reports the sync status of every configured category
type StatusResponse struct {
	Categories []CategoryStatus `json:"categories"`
}
