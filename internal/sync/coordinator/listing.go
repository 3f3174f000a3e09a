package coordinator

import (
	"context"
	"iter"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/store"
)

// Listing is a lazy, restartable view of the stored items of a category.
// Each range reads the store once and yields exactly one value.
type Listing iter.Seq2[[]listing.Item, error]

// storeListing returns a Listing reading category from recordStore
func storeListing(ctx context.Context, recordStore store.RecordStore, category listing.Category) Listing {
	ctx = context.WithoutCancel(ctx)
	return func(yield func([]listing.Item, error) bool) {
		records, err := recordStore.Get(ctx, category)
		if err != nil {
			yield(nil, newError(KindStoreFailure, category, err))
			return
		}
		yield(listing.ToItems(records), nil)
	}
}

// Collect returns the value yielded by the listing. A nil listing yields nothing.
func Collect(l Listing) ([]listing.Item, error) {
	if l == nil {
		return nil, nil
	}
	for items, err := range l {
		return items, err
	}
	return nil, nil
}

// CollectFetch is Collect for the result pair of Coordinator.Fetch
func CollectFetch(l Listing, err error) ([]listing.Item, error) {
	if err != nil {
		return nil, err
	}
	return Collect(l)
}
