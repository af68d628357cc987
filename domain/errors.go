package domain

import "errors"

var (
	// ErrInvalidInput marks caller mistakes that map to a 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks unknown subjects that map to a 404.
	ErrNotFound = errors.New("not found")

	// ErrFeatureStoreUnavailable is returned by feature readers that are absent or unreachable.
	ErrFeatureStoreUnavailable = errors.New("feature store unavailable")
)
