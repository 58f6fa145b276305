package domain

import "errors"

var (
	// ErrNotFound signals a missing scheme record.
	ErrNotFound = errors.New("scheme not found")
	// ErrDuplicate signals an insert that collided on the catalog slug.
	ErrDuplicate = errors.New("duplicate slug")
	// ErrInvalidQuery signals an empty or malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals that the record store cannot be reached.
	// Callers must not render it as an empty result set.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrRateLimited signals a 429/403 from the remote catalog.
	ErrRateLimited = errors.New("rate limited by remote catalog")
)
