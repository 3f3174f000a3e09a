// Package coordinator implements the cache-or-fetch decision engine for
// categorized listings.
//
// For each category the coordinator decides whether the stored records can be
// served or have to be refreshed from the category's remote source:
//
//   - Fast path: the store holds records for the category and the last
//     successful refresh is younger than the category TTL. The stored
//     records are returned without contacting the source.
//   - Slow path: the stored records are deleted, the source is fetched, the
//     items are written back to the store and the sync status is stamped.
//
// # Core Interface
//
//	type Coordinator interface {
//	    Fetch(ctx context.Context, category listing.Category) (Listing, error)
//	    Invalidate(ctx context.Context, category listing.Category) error
//	    Categories() []listing.Category
//	    Statuses(ctx context.Context) (map[listing.Category]*status.SyncStatus, error)
//	}
//
// A Listing is a lazy sequence: every range over it reads the store once and
// yields the mapped items once. Collect returns that single value.
//
// # Usage Example
//
//	bindings, err := coordinator.BindingsFromConfig(cfg, sources.NewSourceFactory(nil))
//	if err != nil {
//	    return err
//	}
//	c := coordinator.New(bindings, recordStore, timeTracker)
//
//	items, err := coordinator.CollectFetch(c.Fetch(ctx, "upcoming"))
//
// # Concurrency
//
// Refreshes of the same category are coalesced with a singleflight group, and
// freshness is checked again inside the flight so queued callers reuse the
// refresh that just finished. The flight runs on a context detached from its
// callers: a caller whose context is done gets its context error back, while
// the refresh goes on for the remaining callers. The write-back runs on its own goroutine with a
// context detached from the caller, and is joined before the sync status is
// stamped. A listing returned after a refresh therefore always reads the
// freshly written records.
//
// # Error Handling
//
// Failures are returned as *Error values carrying a Kind:
//
//   - KindRemoteFailure: the source failed. The category stays empty.
//   - KindEmptyRemoteResult: the source answered without items. Wraps
//     listing.ErrEmptyRemoteResult.
//   - KindStoreFailure: the store or the time tracker failed.
//
// The coordinator never retries. A failed refresh leaves the sync status
// untouched, so the next Fetch refreshes again.
//
// # Warming
//
// Warmer is an optional background loop. On a jittered interval it
// fetches every category, which refreshes those that went stale.
package coordinator
