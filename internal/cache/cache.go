// Package cache is the local last-known-good mirror of remote documents.
// It is a plain key-value table in its own SQLite file, private to this
// device: when the remote document store is unreachable, the freedom
// streak engine replays its transition against the mirrored copy so the
// user keeps making progress offline. Writes here are last-write-wins with
// no cross-device coordination.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Mirror is the local cache store.
type Mirror struct {
	db *sql.DB
}

// Open creates or opens the cache database at dir/cache.db.
func Open(dir string) (*Mirror, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, "cache.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS cache (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}

	return &Mirror{db: db}, nil
}

// Close cleanly shuts down the cache.
func (m *Mirror) Close() error { return m.db.Close() }

// Ping checks cache connectivity.
func (m *Mirror) Ping() error { return m.db.Ping() }

// Read returns the cached value for key. ok is false when absent.
func (m *Mirror) Read(key string) (value string, ok bool, err error) {
	err = m.db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache %s: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key, replacing any prior value.
func (m *Mirror) Write(key, value string) error {
	_, err := m.db.Exec(
		`INSERT INTO cache (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	return nil
}
