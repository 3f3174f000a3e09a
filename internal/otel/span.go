// Package otel provides small tracing helpers shared by the catalog sync components.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on spans across the application
const (
	AttrCategory    = attribute.Key("catalog.category")
	AttrFetchResult = attribute.Key("catalog.fetch.result")
	AttrItemCount   = attribute.Key("catalog.item.count")
	AttrGeneration  = attribute.Key("catalog.generation")
	AttrSourceType  = attribute.Key("catalog.source.type")
	AttrStorageType = attribute.Key("catalog.storage.type")
)

// StartSpan starts a span on tracer, or returns the span already in ctx when tracer is nil
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span as failed.
// The status text stays generic so connection strings and queries
// never end up in the status; the full error is kept in the span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
