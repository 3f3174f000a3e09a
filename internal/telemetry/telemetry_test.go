package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// newCollector starts an OTLP/HTTP endpoint that accepts everything
func newCollector(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return strings.TrimPrefix(server.URL, "http://")
}

func TestNew_Disabled(t *testing.T) {
	t.Parallel()

	for name, opts := range map[string][]Option{
		"no config": nil,
		"disabled":  {WithTelemetryConfig(&Config{Enabled: false})},
		"enabled without signals": {WithTelemetryConfig(&Config{
			Enabled: true,
			Tracing: &TracingConfig{Enabled: false},
			Metrics: &MetricsConfig{Enabled: false},
		})},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tel, err := New(context.Background(), opts...)
			require.NoError(t, err)

			assert.IsType(t, tracenoop.TracerProvider{}, tel.TracerProvider())
			assert.IsType(t, noop.MeterProvider{}, tel.MeterProvider())
			assert.Nil(t, tel.MetricsHandler())
			assert.Nil(t, tel.Resource())
			assert.NoError(t, tel.Shutdown(context.Background()))
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Tracing: &TracingConfig{Enabled: true, Sampling: 2},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telemetry configuration")
}

func TestNew_SDKProviders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tel, err := New(ctx, WithTelemetryConfig(&Config{
		Enabled:  true,
		Endpoint: newCollector(t),
		Insecure: true,
		Tracing:  &TracingConfig{Enabled: true, Sampling: 1},
		Metrics:  &MetricsConfig{Enabled: true},
	}))
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, tel.TracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, tel.MeterProvider())
	assert.Nil(t, tel.MetricsHandler())
	require.NotNil(t, tel.Resource())

	require.NoError(t, tel.Shutdown(ctx))
}

func TestNew_PrometheusHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tel, err := New(ctx, WithTelemetryConfig(&Config{
		Enabled:  true,
		Endpoint: newCollector(t),
		Insecure: true,
		Metrics:  &MetricsConfig{Enabled: true, Prometheus: true},
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(ctx) })

	handler := tel.MetricsHandler()
	require.NotNil(t, handler)

	metrics, err := NewCacheMetrics(tel.MeterProvider())
	require.NoError(t, err)
	metrics.RecordFetch(ctx, "upcoming", FetchResultHit)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "catalog_sync_fetch_total")
	assert.Contains(t, string(body), `category="upcoming"`)
}

func TestNew_CatalogInfoOnResource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tel, err := New(ctx,
		WithTelemetryConfig(&Config{
			Enabled:  true,
			Endpoint: newCollector(t),
			Insecure: true,
			Metrics:  &MetricsConfig{Enabled: true, Interval: "5s"},
		}),
		WithCatalogInfo(CatalogInfo{Categories: []string{"upcoming"}, StorageType: "memory"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(ctx) })

	// metrics alone still build the shared resource; tracing stays no-op
	assert.IsType(t, tracenoop.TracerProvider{}, tel.TracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, tel.MeterProvider())

	set := tel.Resource().Set()
	categories, ok := set.Value(AttrCatalogCategories)
	require.True(t, ok)
	assert.Equal(t, []string{"upcoming"}, categories.AsStringSlice())
	storageType, ok := set.Value(AttrCatalogStorageType)
	require.True(t, ok)
	assert.Equal(t, "memory", storageType.AsString())
}

func TestNew_ReservedResourceAttribute(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled:            true,
		ResourceAttributes: map[string]string{"catalog.categories": "spoofed"},
		Metrics:            &MetricsConfig{Enabled: true},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"catalog.categories" is reserved`)
}
