// Package planner stores vision-board items and daily tasks. Creating an
// item is what feeds the consistency loop: each add bumps the day's
// activity tally and the simple streak. Those tallies are best-effort —
// the item itself is the durable part.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/app/activity"
	"github.com/stridehq/stride/internal/app/streak"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/store"
)

// Service manages planner items and drives the activity/streak tallies.
type Service struct {
	store    store.DocStore
	activity *activity.Service
	streak   *streak.Service
}

// NewService creates a planner service. activity and streak may be nil in
// tests that only exercise item storage.
func NewService(s store.DocStore, a *activity.Service, st *streak.Service) *Service {
	return &Service{store: s, activity: a, streak: st}
}

func itemPath(userID, itemID string) string {
	return "users/" + userID + "/items/" + itemID
}

func itemPrefix(userID string) string {
	return "users/" + userID + "/items/"
}

// Add creates a new item and counts it as today's activity. Tally failures
// are logged, not returned: the item already exists and the count is
// reconstructible.
func (s *Service) Add(ctx context.Context, userID string, kind domain.ItemKind, title, notes string) (domain.Item, error) {
	var item domain.Item
	if userID == "" {
		return item, domain.ErrEmptyUserID
	}
	if kind != domain.ItemVision && kind != domain.ItemTask {
		return item, domain.ErrInvalidKind
	}
	if title == "" {
		return item, domain.ErrEmptyTitle
	}

	now := time.Now()
	item = domain.Item{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Notes:     notes,
		CreatedAt: now,
	}

	doc, err := json.Marshal(item)
	if err != nil {
		return item, fmt.Errorf("encode item: %w", err)
	}
	if err := s.store.Set(ctx, itemPath(userID, item.ID), doc, false); err != nil {
		return item, fmt.Errorf("save item: %w", err)
	}

	if s.activity != nil {
		if _, err := s.activity.Log(ctx, userID, now); err != nil {
			log.Printf("[planner] activity tally failed: %v", err)
		}
	}
	if s.streak != nil {
		if _, err := s.streak.Record(ctx, userID, now); err != nil {
			log.Printf("[planner] streak record failed: %v", err)
		}
	}

	return item, nil
}

// Complete marks an item done. Completion does not touch the tallies.
func (s *Service) Complete(ctx context.Context, userID, itemID string) (domain.Item, error) {
	var item domain.Item
	if userID == "" {
		return item, domain.ErrEmptyUserID
	}

	raw, err := s.store.Update(ctx, itemPath(userID, itemID), func(current json.RawMessage) (json.RawMessage, error) {
		if current == nil {
			return nil, domain.ErrItemNotFound
		}
		var cur domain.Item
		if err := json.Unmarshal(current, &cur); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		if cur.Done {
			return nil, nil // already done, no-op
		}
		cur.Done = true
		return json.Marshal(cur)
	})
	if err != nil {
		return item, fmt.Errorf("complete item: %w", err)
	}

	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// List returns the user's items, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Item, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	paths, err := s.store.ListPaths(ctx, itemPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]domain.Item, 0, len(paths))
	for _, p := range paths {
		raw, err := s.store.Get(ctx, p)
		if err != nil {
			log.Printf("[planner] skipping unreadable item %s: %v", p, err)
			continue
		}
		var item domain.Item
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Printf("[planner] skipping corrupt item %s: %v", p, err)
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
