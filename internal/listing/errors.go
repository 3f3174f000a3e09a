package listing

import "errors"

// Sentinel errors for listing operations
var (
	// ErrUnknownCategory indicates no source is configured for the category
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidCategory indicates a blank category name
	ErrInvalidCategory = errors.New("category name cannot be empty")

	// ErrEmptyRemoteResult indicates the source answered but returned no items
	ErrEmptyRemoteResult = errors.New("remote source returned no items")
)
