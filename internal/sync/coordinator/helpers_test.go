package coordinator

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sources"
	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/state"
)

const (
	upcoming listing.Category = "upcoming"
	popular  listing.Category = "popular"

	testTTL = 24 * time.Hour
)

var epoch = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

// fakeSource serves a configurable listing and counts its calls
type fakeSource struct {
	calls atomic.Int32

	// gate, when set, blocks every Fetch until it is closed
	gate chan struct{}

	mu    sync.Mutex
	items []listing.RemoteItem
	err   error
}

func newFakeSource(items []listing.RemoteItem) *fakeSource {
	return &fakeSource{items: items}
}

func (f *fakeSource) Fetch(ctx context.Context) (*sources.FetchResult, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &sources.FetchResult{Items: slices.Clone(f.items), Present: true}, nil
}

func (*fakeSource) Validate() error {
	return nil
}

func (f *fakeSource) set(items []listing.RemoteItem, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.err = err
}

func (f *fakeSource) callCount() int {
	return int(f.calls.Load())
}

// sequentialGenerations returns gen-1, gen-2, ...
func sequentialGenerations() func() string {
	var n atomic.Int32
	return func() string {
		return fmt.Sprintf("gen-%d", n.Add(1))
	}
}

type fixture struct {
	clock       *clocktesting.FakeClock
	store       *store.MemoryStore
	tracker     state.TimeTracker
	source      *fakeSource
	coordinator Coordinator
}

func newFixture(t *testing.T, items []listing.RemoteItem, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		clock:   clocktesting.NewFakeClock(epoch),
		store:   store.NewMemoryStore(),
		tracker: state.NewMemoryTimeTracker(),
		source:  newFakeSource(items),
	}
	t.Cleanup(func() { _ = f.store.Close() })

	opts = append([]Option{
		WithClock(f.clock),
		WithGenerationFunc(sequentialGenerations()),
	}, opts...)
	f.coordinator = New(
		[]Binding{{Category: upcoming, Source: f.source, TTL: testTTL}},
		f.store, f.tracker, opts...,
	)
	return f
}

func (f *fixture) fetch(t *testing.T, category listing.Category) []listing.Item {
	t.Helper()
	items, err := CollectFetch(f.coordinator.Fetch(context.Background(), category))
	require.NoError(t, err)
	return items
}

func toRemote(items []listing.Item) []listing.RemoteItem {
	out := make([]listing.RemoteItem, len(items))
	for i, item := range items {
		out[i] = item.ToRemote()
	}
	return out
}
