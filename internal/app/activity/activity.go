// Package activity maintains the per-day activity tallies behind the
// calendar heatmap. Append-or-increment keyed by local date; entries are
// never decremented — deleting the underlying item does not roll back its
// day's count.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/dateutil"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/infra/metrics"
	"github.com/stridehq/stride/internal/store"
)

// Record bumps the tally for date, appending a fresh entry when the date
// is new. Insertion order is preserved; a linear scan is fine at this
// scale (a year of daily entries is at most 366 items).
func Record(entries []domain.ActivityEntry, date string) []domain.ActivityEntry {
	for i := range entries {
		if entries[i].Date == date {
			out := make([]domain.ActivityEntry, len(entries))
			copy(out, entries)
			out[i].Count++
			return out
		}
	}
	out := make([]domain.ActivityEntry, len(entries), len(entries)+1)
	copy(out, entries)
	return append(out, domain.ActivityEntry{Date: date, Count: 1})
}

// Service persists the activity log per user. Like the simple streak — and
// unlike the freedom engine — there is no cache fallback: a store failure
// surfaces and the log stays unchanged.
type Service struct {
	store store.DocStore
}

// NewService creates an activity service on the given document store.
func NewService(s store.DocStore) *Service {
	return &Service{store: s}
}

func docPath(userID string) string {
	return "users/" + userID + "/stats/activity"
}

// Get returns the user's activity log, empty when none exists.
func (s *Service) Get(ctx context.Context, userID string) (domain.ActivityLog, error) {
	var logDoc domain.ActivityLog
	if userID == "" {
		return logDoc, domain.ErrEmptyUserID
	}

	raw, err := s.store.Get(ctx, docPath(userID))
	if errors.Is(err, domain.ErrNotFound) {
		return logDoc, nil
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return logDoc, fmt.Errorf("get activity: %w", err)
	}
	if err := json.Unmarshal(raw, &logDoc); err != nil {
		return logDoc, fmt.Errorf("decode activity: %w", err)
	}
	return logDoc, nil
}

// Log counts one activity for the day containing now.
func (s *Service) Log(ctx context.Context, userID string, now time.Time) (domain.ActivityLog, error) {
	var logDoc domain.ActivityLog
	if userID == "" {
		return logDoc, domain.ErrEmptyUserID
	}
	today := dateutil.Format(now)

	raw, err := s.store.Update(ctx, docPath(userID), func(current json.RawMessage) (json.RawMessage, error) {
		var cur domain.ActivityLog
		if current != nil {
			if err := json.Unmarshal(current, &cur); err != nil {
				return nil, fmt.Errorf("decode activity: %w", err)
			}
		}
		cur.Entries = Record(cur.Entries, today)
		return json.Marshal(cur)
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("update").Inc()
		return logDoc, fmt.Errorf("log activity: %w", err)
	}

	if err := json.Unmarshal(raw, &logDoc); err != nil {
		return logDoc, fmt.Errorf("decode activity: %w", err)
	}
	metrics.ActionsRecorded.WithLabelValues("activity", "log").Inc()
	return logDoc, nil
}
