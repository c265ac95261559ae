// Package streak implements the simple daily-activity streak engine.
// One pure transition plus a transactional wrapper: a day counts at most
// once, adjacent days extend the streak, any gap resets it.
package streak

import (
	"github.com/stridehq/stride/internal/dateutil"
	"github.com/stridehq/stride/internal/domain"
)

// Advance computes the next streak state for an activity recorded on
// today (a local-date string).
//
// Rules: first activity ever starts at 1; a repeat on the same day is a
// no-op; the day after lastActiveDate increments; anything else — a gap of
// 2+ days or an out-of-order earlier date — hard-resets to 1. The streak
// never grows by more than 1 per call, and longestStreak never decreases.
func Advance(rec domain.StreakRecord, today string) domain.StreakRecord {
	switch {
	case rec.LastActiveDate == "":
		rec.CurrentStreak = 1
	case rec.LastActiveDate == today:
		// Already counted today.
	case dateutil.NextDay(rec.LastActiveDate) == today:
		rec.CurrentStreak++
	default:
		rec.CurrentStreak = 1
	}

	rec.LastActiveDate = today
	if rec.CurrentStreak > rec.LongestStreak {
		rec.LongestStreak = rec.CurrentStreak
	}
	return rec
}
