package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/stridehq/stride/internal/domain"
)

// SQLite is the embedded DocStore backend. WAL mode for concurrent reads
// and crash-safe writes; a single writer connection makes every Update a
// serializable read-modify-write without explicit row locking.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the document database at dir/documents.db.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "documents.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		path       TEXT PRIMARY KEY,
		doc        TEXT NOT NULL,
		rev        INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

// Close cleanly shuts down the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Ping checks database connectivity.
func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Get returns the document at path.
func (s *SQLite) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM documents WHERE path = ?`, path).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return json.RawMessage(doc), nil
}

// Set writes the document at path, shallow-merging over the existing
// document when merge is set.
func (s *SQLite) Set(ctx context.Context, path string, doc json.RawMessage, merge bool) error {
	_, err := s.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		if !merge {
			return doc, nil
		}
		return mergeDocs(current, doc)
	})
	return err
}

// Update runs fn inside an immediate transaction. The single writer
// connection serializes concurrent updates; the busy timeout covers
// cross-process writers on the same file.
func (s *SQLite) Update(ctx context.Context, path string, fn UpdateFunc) (json.RawMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update %s: begin: %w", path, err)
	}
	defer tx.Rollback()

	var current json.RawMessage
	var doc string
	err = tx.QueryRowContext(ctx, `SELECT doc FROM documents WHERE path = ?`, path).Scan(&doc)
	switch {
	case err == sql.ErrNoRows:
		current = nil
	case err != nil:
		return nil, fmt.Errorf("update %s: read: %w", path, err)
	default:
		current = json.RawMessage(doc)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		// No-op transition — nothing to commit.
		return current, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, doc, rev, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(path) DO UPDATE SET doc=excluded.doc, rev=rev+1, updated_at=excluded.updated_at`,
		path, string(next), time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("update %s: write: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update %s: commit: %w", path, err)
	}
	return next, nil
}

// ListPaths returns all document paths with the given prefix.
func (s *SQLite) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM documents WHERE path LIKE ? || '%' ORDER BY path`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("list %s: scan: %w", prefix, err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
