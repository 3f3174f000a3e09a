package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// BoltFileName is the database file created inside the data directory
const BoltFileName = "catalog.db"

var bucketRecords = []byte("records")

// BoltStore keeps records in a bbolt database. Each category is a nested
// bucket under "records" keyed by a zero padded sequence number, so cursor
// order is insertion order.
type BoltStore struct {
	db *bolt.DB
}

var _ RecordStore = (*BoltStore)(nil)

// OpenBoltDB opens (creating if needed) the bbolt file inside dir
func OpenBoltDB(dir string) (*bolt.DB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, BoltFileName), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return db, nil
}

// NewBoltStore creates the records bucket in db. The store owns db and closes it on Close.
func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create records bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Count returns the number of records stored under category
func (s *BoltStore) Count(_ context.Context, category listing.Category) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := categoryBucket(tx, category)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count records of %s: %w", category, err)
	}
	return count, nil
}

// Get returns the records of category ordered by Position
func (s *BoltStore) Get(_ context.Context, category listing.Category) ([]listing.Record, error) {
	records := []listing.Record{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := categoryBucket(tx, category)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r listing.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("record %s: %w", k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read records of %s: %w", category, err)
	}
	sortByPosition(records)
	return records, nil
}

// DeleteAll drops the bucket of category
func (s *BoltStore) DeleteAll(_ context.Context, category listing.Category) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketRecords)
		if root == nil {
			return nil
		}
		err := root.DeleteBucket([]byte(category))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete records of %s: %w", category, err)
	}
	return nil
}

// InsertAll appends records to category in a single transaction
func (s *BoltStore) InsertAll(_ context.Context, category listing.Category, records []listing.Record) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketRecords)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(category))
		if err != nil {
			return err
		}

		for _, r := range records {
			r.Category = category
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
			}
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			if err := b.Put(sequenceKey(seq), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert records of %s: %w", category, err)
	}
	return nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func categoryBucket(tx *bolt.Tx, category listing.Category) *bolt.Bucket {
	root := tx.Bucket(bucketRecords)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(category))
}

func sequenceKey(seq uint64) []byte {
	return fmt.Appendf(nil, "%020d", seq)
}
