package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheMetricsMeterName is the meter used by the sync coordinator
const CacheMetricsMeterName = "github.com/stacklok/catalog-sync/coordinator"

// Fetch results recorded on catalog_sync_fetch_total
const (
	FetchResultHit     = "hit"
	FetchResultRefresh = "refresh"
	FetchResultError   = "error"
)

// CacheMetrics holds the instruments recorded on every category fetch
type CacheMetrics struct {
	fetchTotal      metric.Int64Counter
	refreshDuration metric.Float64Histogram
	items           metric.Int64Gauge
}

// NewCacheMetrics creates the coordinator instruments.
// A nil provider yields nil metrics, whose methods are no-ops.
func NewCacheMetrics(provider metric.MeterProvider) (*CacheMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CacheMetricsMeterName)

	fetchTotal, err := meter.Int64Counter(
		"catalog_sync_fetch_total",
		metric.WithDescription("Category fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	refreshDuration, err := meter.Float64Histogram(
		"catalog_sync_refresh_duration_seconds",
		metric.WithDescription("Duration of remote refreshes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	items, err := meter.Int64Gauge(
		"catalog_sync_items",
		metric.WithDescription("Number of items stored for a category after the last refresh"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		fetchTotal:      fetchTotal,
		refreshDuration: refreshDuration,
		items:           items,
	}, nil
}

// RecordFetch counts one fetch of category with the given result
func (m *CacheMetrics) RecordFetch(ctx context.Context, category, result string) {
	if m == nil {
		return
	}
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("result", result),
	))
}

// RecordRefresh records how long a refresh of category took
func (m *CacheMetrics) RecordRefresh(ctx context.Context, category string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.refreshDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("category", category),
		attribute.Bool("success", success),
	))
}

// RecordItems records the number of items stored for category
func (m *CacheMetrics) RecordItems(ctx context.Context, category string, count int) {
	if m == nil {
		return
	}
	m.items.Record(ctx, int64(count), metric.WithAttributes(attribute.String("category", category)))
}
