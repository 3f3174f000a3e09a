package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// ErrWarmerStarted is returned by Start when the warmer has already been started
var ErrWarmerStarted = errors.New("cache warmer already started")

// Warmer periodically fetches every category of a coordinator, so stale
// categories are refreshed before a caller asks for them.
type Warmer struct {
	coordinator Coordinator
	interval    time.Duration
	clock       clock.Clock

	mu         sync.Mutex
	started    bool
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// WarmerOption configures a Warmer
type WarmerOption func(*Warmer)

// WithWarmerClock sets the clock driving the warm loop
func WithWarmerClock(c clock.Clock) WarmerOption {
	return func(w *Warmer) {
		w.clock = c
	}
}

// NewWarmer creates a warmer running every interval
func NewWarmer(c Coordinator, interval time.Duration, opts ...WarmerOption) *Warmer {
	w := &Warmer{
		coordinator: c,
		interval:    interval,
		clock:       clock.RealClock{},
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// nextInterval returns the interval with up to ±10% of random jitter applied
func (w *Warmer) nextInterval() time.Duration {
	jitter := w.interval / 10
	if jitter <= 0 {
		return w.interval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for polling jitter
	return w.interval + time.Duration(rand.Int64N(int64(2*jitter))) - jitter
}

// Start warms every category once, then again on every interval.
// Blocks until ctx is cancelled or Stop is called. A warmer runs at most once.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrWarmerStarted
	}
	w.started = true
	warmCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.mu.Unlock()
	defer func() {
		cancel()
		close(w.done)
		slog.Info("Cache warmer shutting down")
	}()

	slog.Info("Starting cache warmer",
		"category_count", len(w.coordinator.Categories()),
		"interval", w.interval)

	w.warm(warmCtx)
	for {
		select {
		case <-w.clock.After(w.nextInterval()):
			w.warm(warmCtx)
		case <-warmCtx.Done():
			return nil
		}
	}
}

// Stop cancels the warm loop and waits for it to return
func (w *Warmer) Stop() error {
	w.mu.Lock()
	cancel := w.cancelFunc
	w.mu.Unlock()
	if cancel != nil {
		slog.Info("Stopping cache warmer")
		cancel()
		<-w.done
	}
	return nil
}

// warm fetches each category; fresh ones are served from the store
func (w *Warmer) warm(ctx context.Context) {
	for _, category := range w.coordinator.Categories() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.coordinator.Fetch(ctx, category); err != nil {
			slog.WarnContext(ctx, "Failed to warm category", "category", category, "error", err)
		}
	}
}
