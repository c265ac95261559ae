package planner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stridehq/stride/internal/app/activity"
	"github.com/stridehq/stride/internal/app/planner"
	"github.com/stridehq/stride/internal/app/streak"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/store"
)

func testPlanner(t *testing.T) (*planner.Service, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	return planner.NewService(m, activity.NewService(m), streak.NewService(m)), m
}

func TestAdd_CreatesItemAndTallies(t *testing.T) {
	svc, m := testPlanner(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "u1", domain.ItemVision, "run a marathon", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
	if item.Done {
		t.Error("new item must not be done")
	}

	// Adding an item counts as activity and streak for the day.
	aSvc := activity.NewService(m)
	logDoc, err := aSvc.Get(ctx, "u1")
	if err != nil || len(logDoc.Entries) != 1 || logDoc.Entries[0].Count != 1 {
		t.Errorf("expected one activity entry, got %+v (%v)", logDoc.Entries, err)
	}

	sSvc := streak.NewService(m)
	rec, err := sSvc.Get(ctx, "u1")
	if err != nil || rec.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %+v (%v)", rec, err)
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := testPlanner(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "journal", "x", ""); !errors.Is(err, domain.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
	if _, err := svc.Add(ctx, "u1", domain.ItemTask, "", ""); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.Add(ctx, "", domain.ItemTask, "x", ""); !errors.Is(err, domain.ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestCompleteAndList(t *testing.T) {
	svc, _ := testPlanner(t)
	ctx := context.Background()

	a, _ := svc.Add(ctx, "u1", domain.ItemTask, "water plants", "")
	b, _ := svc.Add(ctx, "u1", domain.ItemTask, "write journal", "evening")

	done, err := svc.Complete(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Done {
		t.Error("expected done flag set")
	}

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	var foundA, foundB bool
	for _, it := range items {
		switch it.ID {
		case a.ID:
			foundA = true
			if !it.Done {
				t.Error("completion not persisted")
			}
		case b.ID:
			foundB = true
			if it.Done {
				t.Error("wrong item completed")
			}
		}
	}
	if !foundA || !foundB {
		t.Errorf("missing items in list: %+v", items)
	}
}

func TestComplete_MissingItem(t *testing.T) {
	svc, _ := testPlanner(t)
	_, err := svc.Complete(context.Background(), "u1", "nope")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

// Deleting or completing items never decrements the activity tally.
func TestComplete_DoesNotTouchTallies(t *testing.T) {
	svc, m := testPlanner(t)
	ctx := context.Background()

	item, _ := svc.Add(ctx, "u1", domain.ItemTask, "stretch", "")
	before, _ := activity.NewService(m).Get(ctx, "u1")

	if _, err := svc.Complete(ctx, "u1", item.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	after, _ := activity.NewService(m).Get(ctx, "u1")
	if len(after.Entries) != len(before.Entries) || after.Entries[0].Count != before.Entries[0].Count {
		t.Errorf("tally changed on completion: %+v vs %+v", after.Entries, before.Entries)
	}
}
