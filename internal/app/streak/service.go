package streak

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

// Service wraps the pure transition with transactional persistence.
// Unlike the freedom engine there is no local-cache fallback here: a store
// failure surfaces to the caller and the stored record stays unchanged.
type Service struct {
	store store.DocStore
}

// NewService creates a streak service on the given document store.
func NewService(s store.DocStore) *Service {
	return &Service{store: s}
}

func docPath(userID string) string {
	return "users/" + userID + "/stats/streak"
}

// Get returns the user's streak record, synthesizing a zero record when no
// document exists. Older documents missing fields decode onto the zero
// record, so schema drift is never fatal.
func (s *Service) Get(ctx context.Context, userID string) (domain.StreakRecord, error) {
	var rec domain.StreakRecord
	if userID == "" {
		return rec, domain.ErrEmptyUserID
	}

	raw, err := s.store.Get(ctx, docPath(userID))
	if errors.Is(err, domain.ErrNotFound) {
		return rec, nil
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return rec, fmt.Errorf("get streak: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode streak: %w", err)
	}
	return rec, nil
}

// Record counts an activity for the day containing now. Runs inside the
// store's read-modify-write transaction so two racing callers cannot lose
// an update.
func (s *Service) Record(ctx context.Context, userID string, now time.Time) (domain.StreakRecord, error) {
	var rec domain.StreakRecord
	if userID == "" {
		return rec, domain.ErrEmptyUserID
	}
	today := dateutil.Format(now)

	raw, err := s.store.Update(ctx, docPath(userID), func(current json.RawMessage) (json.RawMessage, error) {
		var cur domain.StreakRecord
		if current != nil {
			if err := json.Unmarshal(current, &cur); err != nil {
				return nil, fmt.Errorf("decode streak: %w", err)
			}
		}
		return json.Marshal(Advance(cur, today))
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("update").Inc()
		return rec, fmt.Errorf("record activity: %w", err)
	}

	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode streak: %w", err)
	}
	metrics.ActionsRecorded.WithLabelValues("streak", "activity").Inc()
	return rec, nil
}
