// Package freedom implements the progressive recovery streak engine.
//
// Levels 0–3 are "progressive": the user climbs a ladder of streak targets
// (2, 3, 5, 7 clean days). Completing the ladder enters level 4, the
// absorbing "weekly control" mode, where a single broke allowance per
// Monday-aligned week is tracked instead of a day streak. At most one
// action counts per local calendar day.
//
// The transitions here are pure; service.go wraps them in the store
// transaction and the offline cache-fallback path.
package freedom

import (
	"github.com/stridehq/stride/internal/dateutil"
	"github.com/stridehq/stride/internal/domain"
)

// weekStartOf returns the Monday-aligned week start for a local-date
// string. Malformed dates yield "" and are treated as a week change.
func weekStartOf(date string) string {
	t, err := dateutil.Parse(date)
	if err != nil {
		return ""
	}
	return dateutil.WeekStartMonday(t)
}

// logAction records today's action in the weekly recap, resetting the log
// when the week rolled over. The map is cloned so callers holding the input
// record never observe the mutation.
func logAction(rec domain.FreedomStreakRecord, today string, kind domain.ActionKind) domain.FreedomStreakRecord {
	weekStart := weekStartOf(today)

	actions := make(map[string]domain.ActionKind, len(rec.WeeklyActions)+1)
	if rec.WeeklyRecapWeekStart == weekStart {
		for d, k := range rec.WeeklyActions {
			actions[d] = k
		}
	}
	actions[today] = kind

	rec.WeeklyRecapWeekStart = weekStart
	rec.WeeklyActions = actions
	rec.LastActionDate = today
	rec.LastActionKind = kind
	return rec
}

// ApplyClean records a clean day.
//
// A clean call after a broke on the same day is rejected outright — the
// day is already spent. In weekly mode only the recap advances (the
// EnteredWeeklyMode flag stays raised so callers suppress duplicate
// celebrations). In progressive mode the streak advances by the same
// adjacency rule as the simple streak; reaching the target completes the
// level with no carry-over of surplus days.
func ApplyClean(rec domain.FreedomStreakRecord, today string) (domain.FreedomStreakRecord, domain.ActionResult) {
	var res domain.ActionResult

	if rec.LastActionDate == today && rec.LastActionKind == domain.ActionBroke {
		res.AlreadyBrokeToday = true
		return rec, res
	}

	if rec.Weekly() {
		res.EnteredWeeklyMode = true
		return logAction(rec, today, domain.ActionClean), res
	}

	if rec.LastActionDate == today {
		// Already counted today.
		return rec, res
	}

	nextStreak := 1
	if rec.LastActionDate != "" && dateutil.NextDay(rec.LastActionDate) == today {
		nextStreak = rec.CurrentStreak + 1
	}

	if nextStreak >= rec.TargetDays {
		res.LevelCompleted = true
		rec.CurrentLevel++
		rec.CurrentStreak = 0
		if rec.CurrentLevel >= domain.WeeklyLevel {
			rec.CurrentLevel = domain.WeeklyLevel
			res.EnteredWeeklyMode = true
		} else {
			rec.TargetDays = domain.TargetLadder[rec.CurrentLevel]
		}
	} else {
		rec.CurrentStreak = nextStreak
	}

	return logAction(rec, today, domain.ActionClean), res
}

// ApplyBroke records a slip.
//
// In weekly mode this is the designed-for allowance: the usage counter
// resets when the week rolled over, then increments capped at 1 — a second
// broke in the same week has no further effect. In progressive mode only
// the streak resets; the level and target survive a slip.
func ApplyBroke(rec domain.FreedomStreakRecord, today string) (domain.FreedomStreakRecord, domain.ActionResult) {
	var res domain.ActionResult

	if rec.Weekly() {
		weekStart := weekStartOf(today)
		if rec.WeeklyResetDate != weekStart {
			rec.WeeklyUsageCount = 0
		}
		if rec.WeeklyUsageCount < 1 {
			rec.WeeklyUsageCount++
		}
		rec.WeeklyResetDate = weekStart
		return logAction(rec, today, domain.ActionBroke), res
	}

	rec.CurrentStreak = 0
	return logAction(rec, today, domain.ActionBroke), res
}

// EnsureWeeklyReset normalizes a record for display: if the stored weekly
// quota belongs to an earlier week than now, the returned copy shows zero
// usage and a cleared recap. Nothing is persisted — the next write-through
// action persists the reset.
func EnsureWeeklyReset(rec domain.FreedomStreakRecord, weekStart string) domain.FreedomStreakRecord {
	if rec.Weekly() && rec.WeeklyResetDate != weekStart {
		rec.WeeklyUsageCount = 0
	}
	if rec.WeeklyRecapWeekStart != weekStart {
		rec.WeeklyActions = map[string]domain.ActionKind{}
		rec.WeeklyRecapWeekStart = weekStart
	}
	return rec
}
