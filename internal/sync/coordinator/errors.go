package coordinator

import (
	"errors"
	"fmt"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// Kind classifies coordinator failures
type Kind string

const (
	// KindRemoteFailure indicates the remote source could not be fetched
	KindRemoteFailure Kind = "remote failure"
	// KindEmptyRemoteResult indicates the remote source returned no items
	KindEmptyRemoteResult Kind = "empty remote result"
	// KindStoreFailure indicates the record store or time tracker failed
	KindStoreFailure Kind = "store failure"
)

// Error is returned by the coordinator for failures of a category
type Error struct {
	Kind     Kind
	Category listing.Category
	Err      error
}

func newError(kind Kind, category listing.Category, err error) *Error {
	return &Error{Kind: kind, Category: category, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("category %s: %s: %v", e.Category, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a coordinator error of the given kind
func IsKind(err error, kind Kind) bool {
	var coordErr *Error
	return errors.As(err, &coordErr) && coordErr.Kind == kind
}
