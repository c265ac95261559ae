package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stridehq/stride/internal/domain"
)

// Memory is an in-memory DocStore for tests and ephemeral runs. The mutex
// makes Update a serializable read-modify-write, matching the interface
// contract.
type Memory struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(ctx context.Context, path string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, domain.ErrNotFound)
	}
	return doc, nil
}

func (m *Memory) Set(ctx context.Context, path string, doc json.RawMessage, merge bool) error {
	_, err := m.Update(ctx, path, func(current json.RawMessage) (json.RawMessage, error) {
		if !merge {
			return doc, nil
		}
		return mergeDocs(current, doc)
	})
	return err
}

func (m *Memory) Update(ctx context.Context, path string, fn UpdateFunc) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.docs[path])
	if err != nil {
		return nil, err
	}
	if next == nil {
		return m.docs[path], nil
	}
	m.docs[path] = next
	return next, nil
}

func (m *Memory) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for p := range m.docs {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
