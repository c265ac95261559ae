package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/store"
)

// testStore opens a temporary SQLite document store.
func testStore(t *testing.T) *store.SQLite {
	t.Helper()
	s, err := store.OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "users/u1/stats/streak")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetThenGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := json.RawMessage(`{"currentStreak":3,"longestStreak":5}`)
	if err := s.Set(ctx, "users/u1/stats/streak", doc, false); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "users/u1/stats/streak")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var rec domain.StreakRecord
	if err := json.Unmarshal(got, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.CurrentStreak != 3 || rec.LongestStreak != 5 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestSetMergePreservesOtherFields(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "doc", json.RawMessage(`{"a":1,"b":2}`), false)
	if err := s.Set(ctx, "doc", json.RawMessage(`{"b":9,"c":3}`), true); err != nil {
		t.Fatalf("merge set: %v", err)
	}

	got, _ := s.Get(ctx, "doc")
	var m map[string]int
	if err := json.Unmarshal(got, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"a": 1, "b": 9, "c": 3}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("expected %v, got %v", want, m)
	}
}

func TestUpdateReadModifyWrite(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// First update sees no document.
	out, err := s.Update(ctx, "doc", func(current json.RawMessage) (json.RawMessage, error) {
		if current != nil {
			t.Errorf("expected nil current on first write, got %s", current)
		}
		return json.RawMessage(`{"n":1}`), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if string(out) != `{"n":1}` {
		t.Errorf("unexpected committed doc: %s", out)
	}

	// Second update observes the first write.
	_, err = s.Update(ctx, "doc", func(current json.RawMessage) (json.RawMessage, error) {
		var v struct{ N int }
		if err := json.Unmarshal(current, &v); err != nil {
			return nil, err
		}
		return json.Marshal(map[string]int{"n": v.N + 1})
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, _ := s.Get(ctx, "doc")
	if string(got) != `{"n":2}` {
		t.Errorf("expected {\"n\":2}, got %s", got)
	}
}

func TestUpdateNilSkipsWrite(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "doc", json.RawMessage(`{"n":1}`), false)
	out, err := s.Update(ctx, "doc", func(current json.RawMessage) (json.RawMessage, error) {
		return nil, nil // no-op transition
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if string(out) != `{"n":1}` {
		t.Errorf("expected current doc back, got %s", out)
	}
}

func TestUpdateFnErrorAborts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "doc", json.RawMessage(`{"n":1}`), false)
	boom := errors.New("boom")
	_, err := s.Update(ctx, "doc", func(json.RawMessage) (json.RawMessage, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error surfaced, got %v", err)
	}

	got, _ := s.Get(ctx, "doc")
	if string(got) != `{"n":1}` {
		t.Errorf("document changed after aborted update: %s", got)
	}
}

func TestListPaths(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "users/u1/items/a", json.RawMessage(`{}`), false)
	_ = s.Set(ctx, "users/u1/items/b", json.RawMessage(`{}`), false)
	_ = s.Set(ctx, "users/u2/items/c", json.RawMessage(`{}`), false)

	paths, err := s.ListPaths(ctx, "users/u1/items/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"users/u1/items/a", "users/u1/items/b"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("expected %v, got %v", want, paths)
	}
}

// The memory store must honor the same contract the engines rely on.
func TestMemoryStoreContract(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "doc"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err := m.Update(ctx, "doc", func(current json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"n":1}`), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := m.Get(ctx, "doc")
	if err != nil || string(got) != `{"n":1}` {
		t.Errorf("expected {\"n\":1}, got %s (%v)", got, err)
	}
}
