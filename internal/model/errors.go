package model

import "errors"

var (
	// ErrNotFound means the catalog answered but had no match for the id or
	// query, or no stored review matched the request. Terminal for that
	// input; callers should not retry it.
	ErrNotFound = errors.New("not found")

	// ErrInvalidScore is a caller contract violation; nothing is persisted.
	ErrInvalidScore = errors.New("score must be an integer between 1 and 10")

	// ErrCatalogUnavailable covers transport failures, non-2xx responses and
	// malformed payloads from the external catalog. Retry-worthy upstream;
	// never surfaced as "no results".
	ErrCatalogUnavailable = errors.New("catalog service unavailable")

	// ErrStoreUnavailable covers review store connectivity failures.
	ErrStoreUnavailable = errors.New("review store unavailable")
)
