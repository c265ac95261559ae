package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Check with errors.Is.

var (
	// Document store errors
	ErrNotFound         = errors.New("document not found")
	ErrConflict         = errors.New("write conflict — transaction retries exhausted")
	ErrStoreUnavailable = errors.New("document store unreachable")

	// Planner errors
	ErrItemNotFound = errors.New("item not found")
	ErrInvalidKind  = errors.New("item kind must be vision or task")
	ErrEmptyTitle   = errors.New("item title must not be empty")

	// Identity errors
	ErrEmptyUserID = errors.New("user id must not be empty")
)
