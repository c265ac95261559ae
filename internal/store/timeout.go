package store

import (
	"context"
	"encoding/json"
	"time"
)

// timed bounds every store call with a fixed deadline so a dead network
// rejects instead of hanging. Callers treat the timeout like any other
// store failure (triggering cache fallback where defined).
type timed struct {
	inner   DocStore
	timeout time.Duration
}

// WithTimeout wraps a DocStore so every operation is bounded by d.
func WithTimeout(inner DocStore, d time.Duration) DocStore {
	if d <= 0 {
		return inner
	}
	return &timed{inner: inner, timeout: d}
}

func (t *timed) Get(ctx context.Context, path string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Get(ctx, path)
}

func (t *timed) Set(ctx context.Context, path string, doc json.RawMessage, merge bool) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Set(ctx, path, doc, merge)
}

func (t *timed) Update(ctx context.Context, path string, fn UpdateFunc) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Update(ctx, path, fn)
}

func (t *timed) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.ListPaths(ctx, prefix)
}

func (t *timed) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Ping(ctx)
}

func (t *timed) Close() error { return t.inner.Close() }
