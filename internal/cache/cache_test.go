package cache_test

import (
	"testing"

	"github.com/stridehq/stride/internal/cache"
)

func testMirror(t *testing.T) *cache.Mirror {
	t.Helper()
	m, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestReadMissing(t *testing.T) {
	m := testMirror(t)
	_, ok, err := m.Read("freedom_u1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestWriteReadOverwrite(t *testing.T) {
	m := testMirror(t)

	if err := m.Write("freedom_u1", `{"currentLevel":1}`); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, ok, err := m.Read("freedom_u1")
	if err != nil || !ok {
		t.Fatalf("read back: ok=%v err=%v", ok, err)
	}
	if v != `{"currentLevel":1}` {
		t.Errorf("unexpected value %s", v)
	}

	// Last write wins.
	if err := m.Write("freedom_u1", `{"currentLevel":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = m.Read("freedom_u1")
	if v != `{"currentLevel":2}` {
		t.Errorf("expected overwrite, got %s", v)
	}
}
