// Package store persists listing records partitioned by category.
//
// All implementations keep the records of a category in insertion order and
// return them ordered by Position. InsertAll never deduplicates: replacing a
// category is DeleteAll followed by InsertAll, done by the sync coordinator.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go RecordStore

import (
	"context"
	"errors"
	"slices"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// RecordStore is the persistence engine for listing records
type RecordStore interface {
	// Count returns the number of records stored under category
	Count(ctx context.Context, category listing.Category) (int, error)

	// Get returns the records of category ordered by Position
	Get(ctx context.Context, category listing.Category) ([]listing.Record, error)

	// DeleteAll removes every record of category. Deleting an empty category is not an error.
	DeleteAll(ctx context.Context, category listing.Category) error

	// InsertAll appends records to category
	InsertAll(ctx context.Context, category listing.Category, records []listing.Record) error

	// Close releases the underlying resources
	Close() error
}

// sortByPosition orders records by Position, keeping insertion order for ties
func sortByPosition(records []listing.Record) {
	slices.SortStableFunc(records, func(a, b listing.Record) int {
		return a.Position - b.Position
	})
}
