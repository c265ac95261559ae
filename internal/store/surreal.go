package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/infra/metrics"
)

// updateAttempts bounds the optimistic-concurrency retry loop. After this
// many rev conflicts the Update fails with domain.ErrConflict.
const updateAttempts = 5

// SurrealConfig holds remote document store connection settings.
type SurrealConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Surreal is the remote DocStore backend. Documents live in the `document`
// table keyed by path, with a rev counter used for optimistic
// read-modify-write: an Update re-reads and retries when a concurrent
// writer bumped rev first.
type Surreal struct {
	db     *surrealdb.DB
	config SurrealConfig
}

// docRow is the stored shape: the document as a JSON string plus its rev.
type docRow struct {
	Doc string `json:"doc"`
	Rev int64  `json:"rev"`
}

// NewSurreal creates an unconnected Surreal store.
func NewSurreal(cfg SurrealConfig) *Surreal {
	return &Surreal{config: cfg}
}

// Connect establishes the WebSocket connection and selects the namespace.
func (s *Surreal) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", domain.ErrStoreUnavailable, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", domain.ErrStoreUnavailable, err)
	}

	s.db = db
	return nil
}

// Close closes the connection.
func (s *Surreal) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the connection.
func (s *Surreal) Ping(ctx context.Context) error {
	if s.db == nil {
		return domain.ErrStoreUnavailable
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// query runs a single statement and returns its rows.
func (s *Surreal) query(ctx context.Context, q string, vars map[string]any) ([]docRow, error) {
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	results, err := surrealdb.Query[[]docRow](ctx, s.db, q, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	r := (*results)[0]
	if r.Status != "OK" {
		if r.Error != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, r.Error.Message)
		}
		return nil, domain.ErrStoreUnavailable
	}
	return r.Result, nil
}

// Get returns the document at path.
func (s *Surreal) Get(ctx context.Context, path string) (json.RawMessage, error) {
	rows, err := s.query(ctx,
		`SELECT doc, rev FROM type::thing("document", $id)`,
		map[string]any{"id": path})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get %s: %w", path, domain.ErrNotFound)
	}
	return json.RawMessage(rows[0].Doc), nil
}

// Set writes the document at path, shallow-merging when merge is set.
func (s *Surreal) Set(ctx context.Context, path string, doc json.RawMessage, merge bool) error {
	_, err := s.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		if !merge {
			return doc, nil
		}
		return mergeDocs(current, doc)
	})
	return err
}

// Update implements optimistic read-modify-write: read doc+rev, compute,
// then write guarded by the rev observed at read time. A guard miss means a
// concurrent writer won the race — re-read and retry, bounded.
func (s *Surreal) Update(ctx context.Context, path string, fn UpdateFunc) (json.RawMessage, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		rows, err := s.query(ctx,
			`SELECT doc, rev FROM type::thing("document", $id)`,
			map[string]any{"id": path})
		if err != nil {
			return nil, fmt.Errorf("update %s: read: %w", path, err)
		}

		var current json.RawMessage
		var rev int64
		if len(rows) > 0 {
			current = json.RawMessage(rows[0].Doc)
			rev = rows[0].Rev
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return current, nil
		}

		if rev == 0 {
			// First write. CREATE fails if a concurrent writer created the
			// record between our read and now — that is a retryable conflict.
			_, err = s.query(ctx,
				`CREATE type::thing("document", $id) SET doc = $doc, rev = 1`,
				map[string]any{"id": path, "doc": string(next)})
			if err != nil {
				metrics.StoreRetries.Inc()
				continue
			}
			return next, nil
		}

		wrote, err := s.query(ctx,
			`UPDATE type::thing("document", $id) SET doc = $doc, rev = $new_rev WHERE rev = $old_rev`,
			map[string]any{"id": path, "doc": string(next), "new_rev": rev + 1, "old_rev": rev})
		if err != nil {
			return nil, fmt.Errorf("update %s: write: %w", path, err)
		}
		if len(wrote) == 0 {
			metrics.StoreRetries.Inc()
			continue // rev guard missed — lost the race
		}
		return next, nil
	}
	return nil, fmt.Errorf("update %s: %w", path, domain.ErrConflict)
}

// ListPaths returns all document paths with the given prefix.
func (s *Surreal) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	type idRow struct {
		ID string `json:"id"`
	}
	results, err := surrealdb.Query[[]idRow](ctx, s.db,
		`SELECT record::id(id) AS id FROM document WHERE string::starts_with(record::id(id), $prefix)`,
		map[string]any{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %v", prefix, domain.ErrStoreUnavailable, err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	r := (*results)[0]
	if r.Status != "OK" {
		return nil, fmt.Errorf("list %s: %w", prefix, domain.ErrStoreUnavailable)
	}
	paths := make([]string, 0, len(r.Result))
	for _, row := range r.Result {
		paths = append(paths, row.ID)
	}
	return paths, nil
}
