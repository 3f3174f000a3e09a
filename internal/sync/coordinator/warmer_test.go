package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
)

func TestWarmer_RefreshesStaleCategories(t *testing.T) {
	t.Parallel()

	f := newFixture(t, listing.NewTestRemoteItems("movie", 2))
	w := NewWarmer(f.coordinator, time.Hour, WithWarmerClock(f.clock))

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	// the first pass runs immediately
	require.Eventually(t, func() bool { return f.source.callCount() == 1 }, 5*time.Second, time.Millisecond)

	// a pass inside the ttl serves the stored listing
	require.Eventually(t, f.clock.HasWaiters, 5*time.Second, time.Millisecond)
	f.clock.Step(2 * time.Hour)
	require.Eventually(t, f.clock.HasWaiters, 5*time.Second, time.Millisecond)
	assert.Equal(t, 1, f.source.callCount())

	// once the ttl elapsed the next pass refreshes
	f.clock.Step(testTTL)
	require.Eventually(t, func() bool { return f.source.callCount() == 2 }, 5*time.Second, time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, <-errCh)
}

func TestWarmer_StopsWithContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, listing.NewTestRemoteItems("movie", 1))
	w := NewWarmer(f.coordinator, time.Minute, WithWarmerClock(f.clock))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return f.source.callCount() == 1 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("warmer did not stop")
	}
}

func TestWarmer_SecondStartFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, listing.NewTestRemoteItems("movie", 1))
	w := NewWarmer(f.coordinator, time.Minute, WithWarmerClock(f.clock))

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()
	require.Eventually(t, func() bool { return f.source.callCount() == 1 }, 5*time.Second, time.Millisecond)

	assert.ErrorIs(t, w.Start(context.Background()), ErrWarmerStarted)

	require.NoError(t, w.Stop())
	require.NoError(t, <-errCh)

	// a stopped warmer cannot be restarted either
	assert.ErrorIs(t, w.Start(context.Background()), ErrWarmerStarted)
}

func TestWarmer_StopBeforeStart(t *testing.T) {
	t.Parallel()

	w := NewWarmer(newFixture(t, nil).coordinator, time.Minute)
	assert.NoError(t, w.Stop())
}

func TestWarmer_NextInterval(t *testing.T) {
	t.Parallel()

	w := NewWarmer(nil, 10*time.Minute)
	for range 100 {
		d := w.nextInterval()
		assert.GreaterOrEqual(t, d, 9*time.Minute)
		assert.Less(t, d, 11*time.Minute)
	}
}
