package state

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

var bucketSyncStatus = []byte("sync_status")

// boltTimeTracker keeps one JSON status per category in the sync_status bucket
type boltTimeTracker struct {
	db *bolt.DB
}

// NewBoltTimeTracker creates the sync_status bucket in db. The tracker does not close db.
func NewBoltTimeTracker(db *bolt.DB) (TimeTracker, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSyncStatus)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sync status bucket: %w", err)
	}
	return &boltTimeTracker{db: db}, nil
}

func (b *boltTimeTracker) GetSyncStatus(_ context.Context, category listing.Category) (*status.SyncStatus, error) {
	var result *status.SyncStatus
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSyncStatus).Get([]byte(category))
		if data == nil {
			return nil
		}
		result = &status.SyncStatus{}
		return json.Unmarshal(data, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sync status of %s: %w", category, err)
	}
	return result, nil
}

func (b *boltTimeTracker) UpdateSyncStatus(_ context.Context, category listing.Category, syncStatus *status.SyncStatus) error {
	if syncStatus == nil {
		return fmt.Errorf("sync status cannot be nil")
	}
	data, err := json.Marshal(syncStatus)
	if err != nil {
		return fmt.Errorf("failed to encode sync status: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSyncStatus).Put([]byte(category), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write sync status of %s: %w", category, err)
	}
	return nil
}

func (b *boltTimeTracker) ListSyncStatuses(_ context.Context) (map[listing.Category]*status.SyncStatus, error) {
	result := make(map[listing.Category]*status.SyncStatus)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSyncStatus).ForEach(func(k, v []byte) error {
			s := &status.SyncStatus{}
			if err := json.Unmarshal(v, s); err != nil {
				return fmt.Errorf("status %s: %w", k, err)
			}
			result[listing.Category(k)] = s
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}
	return result, nil
}
