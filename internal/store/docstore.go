// Package store provides the transactional document store the streak
// engines persist to. Documents are opaque JSON keyed by hierarchical
// paths (users/<uid>/stats/freedom). Two backends: an embedded SQLite
// store (default, single-binary deployments) and a remote SurrealDB
// store for cross-device sync.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// UpdateFunc computes the next version of a document inside a
// read-modify-write transaction. current is nil when the document does not
// exist yet. Returning a nil document skips the write (no-op transition).
type UpdateFunc func(current json.RawMessage) (json.RawMessage, error)

// DocStore is a transactional document store.
//
// Update is the load-bearing contract: serializable read-modify-write per
// path. If two updates race on the same path, one observes the other's
// write — the backend retries on conflict a bounded number of times and
// then fails with domain.ErrConflict. Callers never read-modify-write
// outside Update.
type DocStore interface {
	// Get returns the document at path, or domain.ErrNotFound.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set writes the document at path. With merge, top-level fields of doc
	// are merged over the existing document instead of replacing it.
	Set(ctx context.Context, path string, doc json.RawMessage, merge bool) error

	// Update runs fn inside a read-modify-write transaction and returns
	// the document as committed (or the current document on a no-op).
	Update(ctx context.Context, path string, fn UpdateFunc) (json.RawMessage, error)

	// ListPaths returns all document paths with the given prefix.
	ListPaths(ctx context.Context, prefix string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// mergeDocs shallow-merges the top-level fields of patch over base.
// A nil base yields patch unchanged.
func mergeDocs(base, patch json.RawMessage) (json.RawMessage, error) {
	if len(base) == 0 {
		return patch, nil
	}

	var dst map[string]json.RawMessage
	if err := json.Unmarshal(base, &dst); err != nil {
		return nil, fmt.Errorf("merge: decode existing doc: %w", err)
	}
	var src map[string]json.RawMessage
	if err := json.Unmarshal(patch, &src); err != nil {
		return nil, fmt.Errorf("merge: decode patch: %w", err)
	}
	for k, v := range src {
		dst[k] = v
	}

	out, err := json.Marshal(dst)
	if err != nil {
		return nil, fmt.Errorf("merge: encode: %w", err)
	}
	return out, nil
}
