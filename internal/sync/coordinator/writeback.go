package coordinator

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/otel"
)

// writeBack dispatches the insertion of records on its own goroutine and
// returns the group to join. The write is detached from caller cancellation
// so an abandoned request cannot leave a category half written.
func (c *defaultCoordinator) writeBack(ctx context.Context, category listing.Category, records []listing.Record) *errgroup.Group {
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error {
		gctx, span := otel.StartSpan(gctx, c.tracer, "coordinator.writeBack",
			trace.WithAttributes(
				otel.AttrCategory.String(string(category)),
				otel.AttrItemCount.Int(len(records)),
			),
		)
		defer span.End()

		err := c.store.InsertAll(gctx, category, records)
		otel.RecordError(span, err)
		return err
	})
	return g
}
