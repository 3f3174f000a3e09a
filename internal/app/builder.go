package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"

	"github.com/stacklok/catalog-sync/internal/api"
	"github.com/stacklok/catalog-sync/internal/app/storage"
	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/sources"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
	"github.com/stacklok/catalog-sync/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// CatalogAppOptions is a function that configures the catalog app builder
type CatalogAppOptions func(*catalogAppConfig) error

// catalogAppConfig collects everything NewCatalogApp wires together.
// Component overrides are primarily for testing.
type catalogAppConfig struct {
	config *config.Config

	sourceFactory  sources.SourceFactory
	storageFactory storage.Factory
	clock          clock.Clock

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...CatalogAppOptions) (*catalogAppConfig, error) {
	cfg := &catalogAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
		clock:          clock.RealClock{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewCatalogApp builds the application from the given options
func NewCatalogApp(
	ctx context.Context,
	opts ...CatalogAppOptions,
) (*CatalogApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded {
			cfg.storageFactory.Cleanup()
		}
	}()

	components, err := buildCacheComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache components: %w", err)
	}

	httpServer, err := buildHTTPServer(ctx, cfg, components.Coordinator)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app, not in defer
	cleanupNeeded = false

	cancelFunc := func() {
		cfg.storageFactory.Cleanup()
		cancel()
	}

	return &CatalogApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithSourceFactory allows injecting a custom source factory (for testing)
func WithSourceFactory(f sources.SourceFactory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.sourceFactory = f
		return nil
	}
}

// WithClock sets the clock used for freshness checks and warming
func WithClock(c clock.Clock) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if c == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		cfg.clock = c
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and cache metrics
func WithMeterProvider(mp metric.MeterProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP and cache spans
func WithTracerProvider(tp trace.TracerProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler exposes the given handler on /metrics
func WithMetricsHandler(h http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildCacheComponents builds the record store, tracker, coordinator and warmer
func buildCacheComponents(
	ctx context.Context,
	b *catalogAppConfig,
) (*AppComponents, error) {
	slog.Info("Initializing cache components")

	if b.sourceFactory == nil {
		b.sourceFactory = sources.NewSourceFactory(nil)
	}

	bindings, err := coordinator.BindingsFromConfig(b.config, b.sourceFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to bind categories: %w", err)
	}

	recordStore, err := b.storageFactory.CreateRecordStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}

	tracker, err := b.storageFactory.CreateTimeTracker(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create time tracker: %w", err)
	}

	coordOpts := []coordinator.Option{coordinator.WithClock(b.clock)}

	if b.meterProvider != nil {
		cacheMetrics, err := telemetry.NewCacheMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache metrics: %w", err)
		}
		if cacheMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithMetrics(cacheMetrics))
			slog.Info("Cache metrics enabled")
		}
	}
	if b.tracerProvider != nil {
		coordOpts = append(coordOpts, coordinator.WithTracerProvider(b.tracerProvider))
	}

	coord := coordinator.New(bindings, recordStore, tracker, coordOpts...)

	components := &AppComponents{
		Coordinator:    coord,
		RecordStore:    recordStore,
		StorageFactory: b.storageFactory,
	}

	if interval := b.config.GetWarmInterval(); interval > 0 {
		components.Warmer = coordinator.NewWarmer(coord, interval, coordinator.WithWarmerClock(b.clock))
		slog.Info("Cache warming enabled", "interval", interval)
	}

	slog.Info("Cache components initialized successfully",
		"storage_type", b.config.GetStorageType(),
		"category_count", len(bindings))
	return components, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *catalogAppConfig,
	coord coordinator.Coordinator,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Telemetry goes first to capture every request
	var telemetryMiddlewares []func(http.Handler) http.Handler
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			telemetryMiddlewares = append(telemetryMiddlewares, metricsMiddleware)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	if b.tracerProvider != nil {
		telemetryMiddlewares = append(telemetryMiddlewares, telemetry.TracingMiddleware(b.tracerProvider))
	}
	b.middlewares = append(telemetryMiddlewares, b.middlewares...)

	serverOpts := []api.ServerOption{api.WithMiddlewares(b.middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}
	router := api.NewServer(coord, serverOpts...)

	server := &http.Server{
		Addr:              b.address,
		Handler:           router,
		ReadTimeout:       b.readTimeout,
		ReadHeaderTimeout: b.readTimeout,
		WriteTimeout:      b.writeTimeout,
		IdleTimeout:       b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
