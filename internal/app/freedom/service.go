package freedom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/stridehq/stride/internal/cache"
	"github.com/stridehq/stride/internal/dateutil"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/infra/metrics"
	"github.com/stridehq/stride/internal/store"
)

// Service wraps the pure transitions in the store transaction plus the
// offline fallback: when the remote transaction fails for any reason, the
// identical transition is replayed against the last locally cached copy
// and the result is returned as if it had committed. Availability over
// consistency — a later successful read reconciles last-write-wins.
type Service struct {
	store store.DocStore
	cache *cache.Mirror
}

// NewService creates a freedom streak service. cache may be nil, which
// disables the offline fallback (store failures then surface).
func NewService(s store.DocStore, c *cache.Mirror) *Service {
	return &Service{store: s, cache: c}
}

func docPath(userID string) string {
	return "users/" + userID + "/stats/freedom"
}

func cacheKey(userID string) string {
	return "freedom_" + userID
}

// upgrade decodes a stored document onto the schema default, so older
// documents missing newer fields come back complete. A nil document yields
// the bare default.
func upgrade(raw json.RawMessage) (domain.FreedomStreakRecord, error) {
	rec := domain.DefaultFreedomStreak()
	if len(raw) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.DefaultFreedomStreak(), fmt.Errorf("decode freedom streak: %w", err)
	}
	if rec.WeeklyActions == nil {
		rec.WeeklyActions = map[string]domain.ActionKind{}
	}
	if rec.TargetDays == 0 && !rec.Weekly() {
		rec.TargetDays = domain.TargetLadder[rec.CurrentLevel]
	}
	return rec, nil
}

// Get returns the user's record as of now. Remote read first; the result
// is mirrored to the local cache. On remote failure the cached copy (or
// the default) is returned instead — a read-only client keeps working
// offline. A stale weekly quota is zeroed for display only; persistence
// waits for the next action.
func (s *Service) Get(ctx context.Context, userID string, now time.Time) (domain.FreedomStreakRecord, error) {
	if userID == "" {
		return domain.FreedomStreakRecord{}, domain.ErrEmptyUserID
	}

	raw, err := s.store.Get(ctx, docPath(userID))
	switch {
	case err == nil:
		rec, uerr := upgrade(raw)
		if uerr != nil {
			return rec, uerr
		}
		s.mirror(userID, rec)
		return EnsureWeeklyReset(rec, dateutil.WeekStartMonday(now)), nil

	case errors.Is(err, domain.ErrNotFound):
		return domain.DefaultFreedomStreak(), nil

	default:
		metrics.StoreErrors.WithLabelValues("get").Inc()
		log.Printf("[freedom] remote read failed, serving cache: %v", err)
		rec := s.cached(userID)
		return EnsureWeeklyReset(rec, dateutil.WeekStartMonday(now)), nil
	}
}

// MarkCleanToday records a clean day for the day containing now.
func (s *Service) MarkCleanToday(ctx context.Context, userID string, now time.Time) (domain.FreedomStreakRecord, domain.ActionResult, error) {
	return s.apply(ctx, userID, dateutil.Format(now), domain.ActionClean)
}

// MarkBrokeIt records a slip for the day containing now.
func (s *Service) MarkBrokeIt(ctx context.Context, userID string, now time.Time) (domain.FreedomStreakRecord, domain.ActionResult, error) {
	return s.apply(ctx, userID, dateutil.Format(now), domain.ActionBroke)
}

func transition(rec domain.FreedomStreakRecord, today string, kind domain.ActionKind) (domain.FreedomStreakRecord, domain.ActionResult) {
	if kind == domain.ActionBroke {
		return ApplyBroke(rec, today)
	}
	return ApplyClean(rec, today)
}

// apply runs the transition inside the store transaction, falling back to
// the local cache when the transaction fails. Callers cannot distinguish a
// remote-committed update from a local-only one — deliberate.
func (s *Service) apply(ctx context.Context, userID, today string, kind domain.ActionKind) (domain.FreedomStreakRecord, domain.ActionResult, error) {
	var res domain.ActionResult
	if userID == "" {
		return domain.FreedomStreakRecord{}, res, domain.ErrEmptyUserID
	}

	var applied domain.FreedomStreakRecord
	_, err := s.store.Update(ctx, docPath(userID), func(current json.RawMessage) (json.RawMessage, error) {
		rec, uerr := upgrade(current)
		if uerr != nil {
			return nil, uerr
		}
		applied, res = transition(rec, today, kind)
		if current != nil && reflect.DeepEqual(applied, rec) {
			return nil, nil // no-op day, skip the write
		}
		return json.Marshal(applied)
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("update").Inc()
		metrics.StoreFallbacks.Inc()
		log.Printf("[freedom] transaction failed, applying against local cache: %v", err)

		rec := s.cached(userID)
		applied, res = transition(rec, today, kind)
		s.mirror(userID, applied)
		s.observe(res, kind)
		return applied, res, nil
	}

	s.mirror(userID, applied)
	s.observe(res, kind)
	return applied, res, nil
}

func (s *Service) observe(res domain.ActionResult, kind domain.ActionKind) {
	metrics.ActionsRecorded.WithLabelValues("freedom", string(kind)).Inc()
	if res.LevelCompleted {
		metrics.LevelUps.Inc()
	}
	if res.LevelCompleted && res.EnteredWeeklyMode {
		metrics.WeeklyModeEntered.Inc()
	}
}

// cached returns the last locally cached record, or the default when no
// cache exists (or the cache is unusable).
func (s *Service) cached(userID string) domain.FreedomStreakRecord {
	if s.cache == nil {
		return domain.DefaultFreedomStreak()
	}
	val, ok, err := s.cache.Read(cacheKey(userID))
	if err != nil {
		log.Printf("[freedom] cache read failed: %v", err)
		return domain.DefaultFreedomStreak()
	}
	if !ok {
		return domain.DefaultFreedomStreak()
	}
	rec, err := upgrade(json.RawMessage(val))
	if err != nil {
		log.Printf("[freedom] discarding corrupt cache entry: %v", err)
		return domain.DefaultFreedomStreak()
	}
	return rec
}

// mirror writes the record to the local cache, best effort.
func (s *Service) mirror(userID string, rec domain.FreedomStreakRecord) {
	if s.cache == nil {
		return
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[freedom] cache encode failed: %v", err)
		return
	}
	if err := s.cache.Write(cacheKey(userID), string(doc)); err != nil {
		log.Printf("[freedom] cache write failed: %v", err)
	}
}
