// Package domain — habit-tracking types.
// The streak engines drive daily consistency through a simple activity
// streak, a progressive "freedom" recovery streak, and a per-day activity
// tally for the calendar heatmap.
package domain

import "time"

// ─── Simple Streak Types ────────────────────────────────────────────────────

// StreakRecord tracks consecutive days with at least one recorded activity.
// Field names are fixed wire names — stored documents from earlier clients
// must keep decoding.
type StreakRecord struct {
	CurrentStreak  int    `json:"currentStreak"`
	LongestStreak  int    `json:"longestStreak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"` // local date, "" = never active
}

// ─── Freedom Streak Types ───────────────────────────────────────────────────

// ActionKind is the kind of daily action recorded against a freedom streak.
type ActionKind string

const (
	ActionClean ActionKind = "clean"
	ActionBroke ActionKind = "broke"
)

// TargetLadder is the streak length required to clear each progressive
// level. Index is currentLevel; completing index 3 enters weekly mode.
var TargetLadder = [4]int{2, 3, 5, 7}

// WeeklyLevel is the terminal level. Once reached the record never returns
// to progressive mode.
const WeeklyLevel = 4

// FreedomStreakRecord is the progressive recovery streak state.
// Levels 0–3 are progressive (climb the target ladder); level 4 is the
// absorbing weekly-control mode with a one-per-week "broke" allowance.
type FreedomStreakRecord struct {
	CurrentLevel   int        `json:"currentLevel"`
	TargetDays     int        `json:"targetDays"`
	CurrentStreak  int        `json:"currentStreak"`
	LastActionDate string     `json:"lastActionDate,omitempty"`
	LastActionKind ActionKind `json:"lastActionKind,omitempty"`

	// Weekly mode only.
	WeeklyUsageCount int    `json:"weeklyUsageCount"`
	WeeklyResetDate  string `json:"weeklyResetDate,omitempty"`

	// Rolling recap of this week's actions, display only.
	WeeklyRecapWeekStart string                `json:"weeklyRecapWeekStart,omitempty"`
	WeeklyActions        map[string]ActionKind `json:"weeklyActions,omitempty"`
}

// DefaultFreedomStreak returns the record synthesized for a user with no
// stored document: level 0, first ladder target, no history.
func DefaultFreedomStreak() FreedomStreakRecord {
	return FreedomStreakRecord{
		CurrentLevel:  0,
		TargetDays:    TargetLadder[0],
		WeeklyActions: map[string]ActionKind{},
	}
}

// Weekly reports whether the record is in terminal weekly-control mode.
func (r FreedomStreakRecord) Weekly() bool {
	return r.CurrentLevel >= WeeklyLevel
}

// ActionResult carries the derived flags of a freedom-streak transition.
// The UI uses these to trigger celebratory feedback exactly once.
type ActionResult struct {
	LevelCompleted    bool `json:"levelCompleted"`
	EnteredWeeklyMode bool `json:"enteredWeeklyMode"`
	AlreadyBrokeToday bool `json:"alreadyBrokeToday"` // clean rejected: broke already logged today
}

// ─── Activity Log Types ─────────────────────────────────────────────────────

// ActivityEntry is a per-day activity tally driving the calendar heatmap.
type ActivityEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivityLog is the stored activity document. Entries are unique per date,
// insertion-ordered; counts never decrease.
type ActivityLog struct {
	Entries []ActivityEntry `json:"entries"`
}

// ─── Planner Types ──────────────────────────────────────────────────────────

// ItemKind distinguishes vision-board items from planner tasks.
type ItemKind string

const (
	ItemVision ItemKind = "vision"
	ItemTask   ItemKind = "task"
)

// Item is a vision-board entry or planner task. Creating one counts as
// activity for the day; completing or deleting one does not roll it back.
type Item struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}
