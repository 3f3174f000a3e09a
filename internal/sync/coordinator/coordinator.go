package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"k8s.io/utils/clock"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/otel"
	"github.com/stacklok/catalog-sync/internal/status"
	"github.com/stacklok/catalog-sync/internal/store"
	"github.com/stacklok/catalog-sync/internal/sync/state"
	"github.com/stacklok/catalog-sync/internal/telemetry"
)

// TracerName is the instrumentation name of the coordinator spans
const TracerName = "github.com/stacklok/catalog-sync/coordinator"

// Coordinator serves categorized listings from the store, refreshing them from
// their remote source when they are missing or stale
//
//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks github.com/stacklok/catalog-sync/internal/sync/coordinator Coordinator
type Coordinator interface {
	// Fetch returns the listing of category, refreshing it first when needed
	Fetch(ctx context.Context, category listing.Category) (Listing, error)

	// Invalidate deletes the stored records of category so the next Fetch refreshes it.
	// The sync status is left untouched.
	Invalidate(ctx context.Context, category listing.Category) error

	// Categories returns the configured categories in configuration order
	Categories() []listing.Category

	// Statuses returns the sync status of every category refreshed at least once
	Statuses(ctx context.Context) (map[listing.Category]*status.SyncStatus, error)
}

// Option configures the coordinator
type Option func(*defaultCoordinator)

// WithClock sets the clock used for freshness checks and stamps
func WithClock(c clock.PassiveClock) Option {
	return func(d *defaultCoordinator) {
		d.clock = c
	}
}

// WithMetrics sets the cache metrics. Nil metrics are allowed.
func WithMetrics(m *telemetry.CacheMetrics) Option {
	return func(d *defaultCoordinator) {
		d.metrics = m
	}
}

// WithTracerProvider sets the provider of the coordinator tracer
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *defaultCoordinator) {
		if tp != nil {
			d.tracer = tp.Tracer(TracerName)
		}
	}
}

// WithGenerationFunc sets the function producing refresh generation ids
func WithGenerationFunc(fn func() string) Option {
	return func(d *defaultCoordinator) {
		if fn != nil {
			d.newGeneration = fn
		}
	}
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	bindings   map[listing.Category]*Binding
	categories []listing.Category

	store   store.RecordStore
	tracker state.TimeTracker

	clock         clock.PassiveClock
	metrics       *telemetry.CacheMetrics
	tracer        trace.Tracer
	newGeneration func() string

	flights singleflight.Group
}

// New creates a coordinator for the given category bindings
func New(bindings []Binding, recordStore store.RecordStore, tracker state.TimeTracker, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		bindings:      make(map[listing.Category]*Binding, len(bindings)),
		categories:    make([]listing.Category, 0, len(bindings)),
		store:         recordStore,
		tracker:       tracker,
		clock:         clock.RealClock{},
		newGeneration: uuid.NewString,
	}
	for i := range bindings {
		b := bindings[i]
		if _, exists := c.bindings[b.Category]; !exists {
			c.categories = append(c.categories, b.Category)
		}
		c.bindings[b.Category] = &b
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *defaultCoordinator) Categories() []listing.Category {
	out := make([]listing.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *defaultCoordinator) Statuses(ctx context.Context) (map[listing.Category]*status.SyncStatus, error) {
	statuses, err := c.tracker.ListSyncStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}
	return statuses, nil
}

func (c *defaultCoordinator) Fetch(ctx context.Context, category listing.Category) (Listing, error) {
	binding, err := c.lookup(category)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.Fetch",
		trace.WithAttributes(otel.AttrCategory.String(string(category))),
	)
	defer span.End()

	result, err := c.fetch(ctx, binding)
	if err != nil {
		otel.RecordError(span, err)
		c.metrics.RecordFetch(ctx, string(category), telemetry.FetchResultError)
		return nil, err
	}

	span.SetAttributes(otel.AttrFetchResult.String(result))
	c.metrics.RecordFetch(ctx, string(category), result)
	return storeListing(ctx, c.store, category), nil
}

// fetch runs the freshness check and, when needed, the refresh. It returns the fetch result label.
func (c *defaultCoordinator) fetch(ctx context.Context, binding *Binding) (string, error) {
	fresh, err := c.isFresh(ctx, binding)
	if err != nil {
		return "", err
	}
	if fresh {
		slog.DebugContext(ctx, "Serving cached listing", "category", binding.Category)
		return telemetry.FetchResultHit, nil
	}

	// The flight runs detached from every caller; each caller stops waiting
	// when its own context is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(string(binding.Category), func() (any, error) {
		// a refresh may have finished while this caller waited for the flight
		fresh, err := c.isFresh(flightCtx, binding)
		if err != nil || fresh {
			return false, err
		}
		return true, c.refresh(flightCtx, binding)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Val.(bool) {
			return telemetry.FetchResultRefresh, nil
		}
		return telemetry.FetchResultHit, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// isFresh reports whether the stored records of the category can be served.
// A category without records is never fresh, whatever its sync status says.
func (c *defaultCoordinator) isFresh(ctx context.Context, binding *Binding) (bool, error) {
	count, err := c.store.Count(ctx, binding.Category)
	if err != nil {
		return false, newError(KindStoreFailure, binding.Category, fmt.Errorf("failed to count records: %w", err))
	}
	if count == 0 {
		return false, nil
	}

	syncStatus, err := c.tracker.GetSyncStatus(ctx, binding.Category)
	if err != nil {
		return false, newError(KindStoreFailure, binding.Category, fmt.Errorf("failed to read sync status: %w", err))
	}
	if syncStatus == nil {
		return false, nil
	}

	return c.clock.Since(syncStatus.LastSyncTime) < getTTL(binding), nil
}

// refresh replaces the stored records of the category with the current remote listing
func (c *defaultCoordinator) refresh(ctx context.Context, binding *Binding) (err error) {
	category := binding.Category
	start := c.clock.Now()

	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.refresh",
		trace.WithAttributes(otel.AttrCategory.String(string(category))),
	)
	defer func() {
		otel.RecordError(span, err)
		span.End()
		c.metrics.RecordRefresh(ctx, string(category), c.clock.Since(start), err == nil)
	}()

	slog.InfoContext(ctx, "Refreshing category", "category", category)

	if err := c.store.DeleteAll(ctx, category); err != nil {
		return newError(KindStoreFailure, category, fmt.Errorf("failed to delete stale records: %w", err))
	}

	result, err := binding.Source.Fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.WarnContext(ctx, "Remote fetch failed", "category", category, "error", err)
		return newError(KindRemoteFailure, category, err)
	}
	if result == nil || !result.Present || (len(result.Items) == 0 && !binding.AllowEmpty) {
		return newError(KindEmptyRemoteResult, category, listing.ErrEmptyRemoteResult)
	}

	generation := c.newGeneration()
	fetchedAt := c.clock.Now()
	records := listing.ToRecords(result.Items, category, generation, fetchedAt)

	if err := c.writeBack(ctx, category, records).Wait(); err != nil {
		return newError(KindStoreFailure, category, fmt.Errorf("failed to write records: %w", err))
	}

	syncStatus := &status.SyncStatus{
		LastSyncTime: fetchedAt,
		ItemCount:    len(records),
		Generation:   generation,
	}
	if err := c.tracker.UpdateSyncStatus(context.WithoutCancel(ctx), category, syncStatus); err != nil {
		return newError(KindStoreFailure, category, fmt.Errorf("failed to update sync status: %w", err))
	}

	span.SetAttributes(
		otel.AttrItemCount.Int(len(records)),
		otel.AttrGeneration.String(generation),
	)
	c.metrics.RecordItems(ctx, string(category), len(records))
	slog.InfoContext(ctx, "Category refreshed",
		"category", category,
		"items", len(records),
		"generation", generation,
		"duration", c.clock.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func (c *defaultCoordinator) Invalidate(ctx context.Context, category listing.Category) error {
	if _, err := c.lookup(category); err != nil {
		return err
	}

	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.Invalidate",
		trace.WithAttributes(otel.AttrCategory.String(string(category))),
	)
	defer span.End()

	if err := c.store.DeleteAll(ctx, category); err != nil {
		err = newError(KindStoreFailure, category, fmt.Errorf("failed to delete records: %w", err))
		otel.RecordError(span, err)
		return err
	}
	c.metrics.RecordItems(ctx, string(category), 0)
	slog.InfoContext(ctx, "Category invalidated", "category", category)
	return nil
}

// lookup validates category and returns its binding
func (c *defaultCoordinator) lookup(category listing.Category) (*Binding, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	binding, ok := c.bindings[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", listing.ErrUnknownCategory, category)
	}
	return binding, nil
}
