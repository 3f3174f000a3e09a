package store

import (
	"context"
	"slices"
	"sync"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	records map[listing.Category][]listing.Record
	closed  bool
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[listing.Category][]listing.Record)}
}

// Count returns the number of records stored under category
func (s *MemoryStore) Count(_ context.Context, category listing.Category) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.records[category]), nil
}

// Get returns copies of the records of category
func (s *MemoryStore) Get(_ context.Context, category listing.Category) ([]listing.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	stored := s.records[category]
	out := make([]listing.Record, len(stored))
	for i, r := range stored {
		r.GenreIDs = slices.Clone(r.GenreIDs)
		out[i] = r
	}
	sortByPosition(out)
	return out, nil
}

// DeleteAll removes every record of category
func (s *MemoryStore) DeleteAll(_ context.Context, category listing.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.records, category)
	return nil
}

// InsertAll appends copies of records to category
func (s *MemoryStore) InsertAll(_ context.Context, category listing.Category, records []listing.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, r := range records {
		r.Category = category
		r.GenreIDs = slices.Clone(r.GenreIDs)
		s.records[category] = append(s.records[category], r)
	}
	return nil
}

// Close drops all records
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
