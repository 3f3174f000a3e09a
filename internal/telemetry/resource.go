package telemetry

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Resource attribute keys describing the served catalog
const (
	AttrCatalogCategories    = attribute.Key("catalog.categories")
	AttrCatalogCategoryCount = attribute.Key("catalog.category.count")
	AttrCatalogStorageType   = attribute.Key("catalog.storage.type")
)

// CatalogInfo describes the catalog a process serves. It is attached to the
// resource of every exported span and metric.
type CatalogInfo struct {
	Categories  []string
	StorageType string
}

func (i CatalogInfo) attributes() []attribute.KeyValue {
	categories := slices.Sorted(slices.Values(i.Categories))
	attrs := []attribute.KeyValue{
		AttrCatalogCategories.StringSlice(categories),
		AttrCatalogCategoryCount.Int(len(categories)),
	}
	if i.StorageType != "" {
		attrs = append(attrs, AttrCatalogStorageType.String(i.StorageType))
	}
	return attrs
}

// newResource builds the resource shared by the tracer and meter providers.
// Extra attributes from the config are added in key order and cannot
// replace the service or catalog attributes.
func newResource(ctx context.Context, cfg *Config, info CatalogInfo) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.GetServiceName()),
		semconv.ServiceVersion(cfg.GetServiceVersion()),
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.ResourceAttributes)) {
		attrs = append(attrs, attribute.String(key, cfg.ResourceAttributes[key]))
	}
	attrs = append(attrs, info.attributes()...)

	res, err := resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
