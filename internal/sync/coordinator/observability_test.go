package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/otel"
	"github.com/stacklok/catalog-sync/internal/telemetry"
)

func TestFetch_RecordsMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	metrics, err := telemetry.NewCacheMetrics(provider)
	require.NoError(t, err)

	f := newFixture(t, listing.NewTestRemoteItems("movie", 3), WithMetrics(metrics))
	f.fetch(t, upcoming)
	f.fetch(t, upcoming)
	_, err = f.coordinator.Fetch(ctx, "unknown")
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	found := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m
		}
	}

	fetches, ok := found["catalog_sync_fetch_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byResult := map[string]int64{}
	for _, dp := range fetches.DataPoints {
		result, _ := dp.Attributes.Value(attribute.Key("result"))
		byResult[result.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), byResult[telemetry.FetchResultRefresh])
	assert.Equal(t, int64(1), byResult[telemetry.FetchResultHit])

	refreshes, ok := found["catalog_sync_refresh_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, refreshes.DataPoints, 1)
	assert.Equal(t, uint64(1), refreshes.DataPoints[0].Count)

	items, ok := found["catalog_sync_items"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, items.DataPoints, 1)
	assert.Equal(t, int64(3), items.DataPoints[0].Value)
}

func TestFetch_RecordsSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t, listing.NewTestRemoteItems("movie", 2), WithTracerProvider(provider))
	f.fetch(t, upcoming)
	f.fetch(t, upcoming)

	byName := map[string][]tracetest.SpanStub{}
	for _, span := range exporter.GetSpans() {
		byName[span.Name] = append(byName[span.Name], span)
	}

	require.Len(t, byName["coordinator.Fetch"], 2)
	require.Len(t, byName["coordinator.refresh"], 1)
	require.Len(t, byName["coordinator.writeBack"], 1)

	results := []string{}
	for _, span := range byName["coordinator.Fetch"] {
		for _, attr := range span.Attributes {
			if attr.Key == otel.AttrFetchResult {
				results = append(results, attr.Value.AsString())
			}
		}
	}
	assert.ElementsMatch(t, []string{telemetry.FetchResultRefresh, telemetry.FetchResultHit}, results)

	refresh := byName["coordinator.refresh"][0]
	assert.NotEqual(t, codes.Error, refresh.Status.Code)
	assert.Contains(t, refresh.Attributes, otel.AttrGeneration.String("gen-1"))
}

func TestFetch_RemoteFailureMarksSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t, nil, WithTracerProvider(provider))
	f.source.set(nil, assert.AnError)

	_, err := f.coordinator.Fetch(context.Background(), upcoming)
	require.Error(t, err)

	for _, span := range exporter.GetSpans() {
		assert.Equal(t, codes.Error, span.Status.Code, span.Name)
	}
}
