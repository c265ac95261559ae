package freedom_test

import (
	"testing"

	"github.com/stridehq/stride/internal/app/freedom"
	"github.com/stridehq/stride/internal/dateutil"
	"github.com/stridehq/stride/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Progressive Mode
// ═══════════════════════════════════════════════════════════════════════════

func TestClean_FirstDayStartsStreak(t *testing.T) {
	rec, res := freedom.ApplyClean(domain.DefaultFreedomStreak(), "2024-01-01")
	if rec.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", rec.CurrentStreak)
	}
	if rec.CurrentLevel != 0 || rec.TargetDays != 2 {
		t.Errorf("level/target changed unexpectedly: %+v", rec)
	}
	if res.LevelCompleted || res.EnteredWeeklyMode || res.AlreadyBrokeToday {
		t.Errorf("unexpected flags: %+v", res)
	}
	if rec.LastActionDate != "2024-01-01" || rec.LastActionKind != domain.ActionClean {
		t.Errorf("last action not recorded: %+v", rec)
	}
}

func TestClean_SameDayIdempotent(t *testing.T) {
	rec, _ := freedom.ApplyClean(domain.DefaultFreedomStreak(), "2024-01-01")
	again, res := freedom.ApplyClean(rec, "2024-01-01")
	if again.CurrentStreak != rec.CurrentStreak || again.CurrentLevel != rec.CurrentLevel {
		t.Errorf("second same-day clean changed state: %+v vs %+v", again, rec)
	}
	if res.LevelCompleted {
		t.Error("no level completion expected on idempotent call")
	}
}

func TestClean_GapResetsStreak(t *testing.T) {
	rec := domain.DefaultFreedomStreak()
	rec.CurrentLevel = 2
	rec.TargetDays = 5
	rec.CurrentStreak = 3
	rec.LastActionDate = "2024-01-01"
	rec.LastActionKind = domain.ActionClean

	got, res := freedom.ApplyClean(rec, "2024-01-04") // 3-day gap
	if got.CurrentStreak != 1 {
		t.Errorf("expected reset to 1, got %d", got.CurrentStreak)
	}
	if got.CurrentLevel != 2 || got.TargetDays != 5 {
		t.Errorf("gap must not touch level/target: %+v", got)
	}
	if res.LevelCompleted {
		t.Error("no level completion on gap reset")
	}
}

func TestClean_LevelUpLadder(t *testing.T) {
	// Level 0, streak 1, target 2: the adjacent next clean day completes
	// the level and resets progress for the next target.
	rec := domain.DefaultFreedomStreak()
	rec.CurrentStreak = 1
	rec.LastActionDate = "2024-01-01"
	rec.LastActionKind = domain.ActionClean

	got, res := freedom.ApplyClean(rec, "2024-01-02")
	if !res.LevelCompleted {
		t.Fatal("expected levelCompleted")
	}
	if res.EnteredWeeklyMode {
		t.Error("level 1 is not weekly mode")
	}
	if got.CurrentLevel != 1 {
		t.Errorf("expected level 1, got %d", got.CurrentLevel)
	}
	if got.TargetDays != 3 {
		t.Errorf("expected next target 3, got %d", got.TargetDays)
	}
	if got.CurrentStreak != 0 {
		t.Errorf("expected streak reset to 0 on level-up, got %d", got.CurrentStreak)
	}
}

func TestClean_NoSurplusCarryOver(t *testing.T) {
	// Reaching a target starts the next level from 0, not from the excess.
	rec := domain.DefaultFreedomStreak()
	rec.CurrentLevel = 1
	rec.TargetDays = 3
	rec.CurrentStreak = 2
	rec.LastActionDate = "2024-01-02"
	rec.LastActionKind = domain.ActionClean

	got, _ := freedom.ApplyClean(rec, "2024-01-03")
	if got.CurrentLevel != 2 || got.CurrentStreak != 0 || got.TargetDays != 5 {
		t.Errorf("unexpected post-level-up state: %+v", got)
	}
}

func TestClean_FullLadderWalk(t *testing.T) {
	// 2+3+5+7 adjacent clean days walk level 0 through weekly mode.
	rec := domain.DefaultFreedomStreak()
	day := "2024-01-01"
	levelUps := 0
	var last domain.ActionResult

	for i := 0; i < 17; i++ {
		rec, last = freedom.ApplyClean(rec, day)
		if last.LevelCompleted {
			levelUps++
		}
		day = nextDay(t, day)
	}

	if levelUps != 4 {
		t.Errorf("expected 4 level completions, got %d", levelUps)
	}
	if rec.CurrentLevel != domain.WeeklyLevel {
		t.Errorf("expected terminal level 4, got %d", rec.CurrentLevel)
	}
	if !last.EnteredWeeklyMode {
		t.Error("expected enteredWeeklyMode on the final level-up")
	}
	if rec.CurrentStreak != 0 {
		t.Errorf("expected streak 0 after final level-up, got %d", rec.CurrentStreak)
	}
}

func TestBroke_ProgressiveResetsStreakOnly(t *testing.T) {
	rec := domain.DefaultFreedomStreak()
	rec.CurrentLevel = 3
	rec.TargetDays = 7
	rec.CurrentStreak = 6
	rec.LastActionDate = "2024-01-06"
	rec.LastActionKind = domain.ActionClean

	got, res := freedom.ApplyBroke(rec, "2024-01-07")
	if got.CurrentStreak != 0 {
		t.Errorf("expected streak 0, got %d", got.CurrentStreak)
	}
	if got.CurrentLevel != 3 || got.TargetDays != 7 {
		t.Errorf("slip must not demote level: %+v", got)
	}
	if got.LastActionKind != domain.ActionBroke {
		t.Errorf("expected broke recorded, got %s", got.LastActionKind)
	}
	if res.LevelCompleted || res.EnteredWeeklyMode {
		t.Errorf("unexpected flags: %+v", res)
	}
}

func TestClean_AfterBrokeSameDayRejected(t *testing.T) {
	rec := domain.DefaultFreedomStreak()
	rec.CurrentStreak = 1
	rec.LastActionDate = "2024-01-01"
	rec.LastActionKind = domain.ActionClean

	broke, _ := freedom.ApplyBroke(rec, "2024-01-02")
	got, res := freedom.ApplyClean(broke, "2024-01-02")

	if !res.AlreadyBrokeToday {
		t.Fatal("expected alreadyBrokeToday flag")
	}
	if got.CurrentStreak != broke.CurrentStreak ||
		got.LastActionKind != broke.LastActionKind ||
		got.CurrentLevel != broke.CurrentLevel {
		t.Errorf("rejected clean changed state: %+v vs %+v", got, broke)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Weekly Mode
// ═══════════════════════════════════════════════════════════════════════════

// weeklyRecord is a record already in terminal weekly mode.
func weeklyRecord() domain.FreedomStreakRecord {
	rec := domain.DefaultFreedomStreak()
	rec.CurrentLevel = domain.WeeklyLevel
	return rec
}

func TestWeekly_CleanOnlyLogsRecap(t *testing.T) {
	rec := weeklyRecord()
	got, res := freedom.ApplyClean(rec, "2024-07-03") // a Wednesday

	if !res.EnteredWeeklyMode {
		t.Error("weekly-mode clean must report enteredWeeklyMode")
	}
	if res.LevelCompleted {
		t.Error("no level completion in weekly mode")
	}
	if got.CurrentLevel != domain.WeeklyLevel || got.CurrentStreak != 0 {
		t.Errorf("weekly clean must not touch streak math: %+v", got)
	}
	if got.WeeklyActions["2024-07-03"] != domain.ActionClean {
		t.Errorf("recap missing clean entry: %+v", got.WeeklyActions)
	}
	if got.WeeklyRecapWeekStart != "2024-07-01" {
		t.Errorf("expected recap week start 2024-07-01, got %s", got.WeeklyRecapWeekStart)
	}
}

func TestWeekly_BrokeAllowance(t *testing.T) {
	rec := weeklyRecord()
	got, _ := freedom.ApplyBroke(rec, "2024-07-03")

	if got.WeeklyUsageCount != 1 {
		t.Errorf("expected usage 1, got %d", got.WeeklyUsageCount)
	}
	if got.WeeklyResetDate != "2024-07-01" {
		t.Errorf("expected reset date 2024-07-01, got %s", got.WeeklyResetDate)
	}
	if got.CurrentLevel != domain.WeeklyLevel {
		t.Error("broke must not leave weekly mode")
	}
}

func TestWeekly_BrokeCappedAtOne(t *testing.T) {
	rec := weeklyRecord()
	rec, _ = freedom.ApplyBroke(rec, "2024-07-02")
	rec, _ = freedom.ApplyBroke(rec, "2024-07-04") // same week

	if rec.WeeklyUsageCount != 1 {
		t.Errorf("expected usage capped at 1, got %d", rec.WeeklyUsageCount)
	}
	if rec.CurrentLevel != domain.WeeklyLevel {
		t.Error("cap must not revert to progressive mode")
	}
}

func TestWeekly_UsageResetsOnNewWeek(t *testing.T) {
	rec := weeklyRecord()
	rec, _ = freedom.ApplyBroke(rec, "2024-07-03")
	rec, _ = freedom.ApplyBroke(rec, "2024-07-09") // following week

	if rec.WeeklyUsageCount != 1 {
		t.Errorf("expected usage 1 after weekly reset, got %d", rec.WeeklyUsageCount)
	}
	if rec.WeeklyResetDate != "2024-07-08" {
		t.Errorf("expected reset date 2024-07-08, got %s", rec.WeeklyResetDate)
	}
}

func TestWeekly_TerminalTransitionThenBroke(t *testing.T) {
	// Spec property: completing level 3 enters weekly mode, and a
	// subsequent broke increments the weekly quota without touching level.
	rec := domain.DefaultFreedomStreak()
	rec.CurrentLevel = 3
	rec.TargetDays = 7
	rec.CurrentStreak = 6
	rec.LastActionDate = "2024-07-06"
	rec.LastActionKind = domain.ActionClean

	rec, res := freedom.ApplyClean(rec, "2024-07-07")
	if !res.EnteredWeeklyMode || !res.LevelCompleted {
		t.Fatalf("expected terminal level-up flags, got %+v", res)
	}

	rec, _ = freedom.ApplyBroke(rec, "2024-07-08")
	if rec.WeeklyUsageCount != 1 || rec.CurrentLevel != domain.WeeklyLevel {
		t.Errorf("unexpected state after weekly broke: %+v", rec)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Recap Log
// ═══════════════════════════════════════════════════════════════════════════

func TestRecap_RollsOverOnWeekBoundary(t *testing.T) {
	rec := domain.DefaultFreedomStreak()
	rec, _ = freedom.ApplyClean(rec, "2024-07-05") // Friday
	rec, _ = freedom.ApplyClean(rec, "2024-07-06") // Saturday

	if len(rec.WeeklyActions) != 2 {
		t.Fatalf("expected 2 recap entries, got %d", len(rec.WeeklyActions))
	}

	rec, _ = freedom.ApplyClean(rec, "2024-07-08") // Monday — new week
	if len(rec.WeeklyActions) != 1 {
		t.Errorf("expected recap cleared on week rollover, got %+v", rec.WeeklyActions)
	}
	if rec.WeeklyActions["2024-07-08"] != domain.ActionClean {
		t.Errorf("recap missing new week entry: %+v", rec.WeeklyActions)
	}
	if rec.WeeklyRecapWeekStart != "2024-07-08" {
		t.Errorf("expected week start 2024-07-08, got %s", rec.WeeklyRecapWeekStart)
	}
}

func TestRecap_DoesNotAliasInputMap(t *testing.T) {
	rec := domain.DefaultFreedomStreak()
	rec, _ = freedom.ApplyClean(rec, "2024-07-02")

	before := len(rec.WeeklyActions)
	_, _ = freedom.ApplyBroke(rec, "2024-07-03")
	if len(rec.WeeklyActions) != before {
		t.Error("transition mutated the input record's recap map")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Read-Time Normalization
// ═══════════════════════════════════════════════════════════════════════════

func TestEnsureWeeklyReset_StaleWeekZeroesQuota(t *testing.T) {
	rec := weeklyRecord()
	rec.WeeklyUsageCount = 1
	rec.WeeklyResetDate = "2024-07-01"
	rec.WeeklyRecapWeekStart = "2024-07-01"
	rec.WeeklyActions = map[string]domain.ActionKind{"2024-07-03": domain.ActionBroke}

	got := freedom.EnsureWeeklyReset(rec, "2024-07-08")
	if got.WeeklyUsageCount != 0 {
		t.Errorf("expected display usage 0, got %d", got.WeeklyUsageCount)
	}
	if len(got.WeeklyActions) != 0 {
		t.Errorf("expected stale recap cleared, got %+v", got.WeeklyActions)
	}
}

func TestEnsureWeeklyReset_CurrentWeekUntouched(t *testing.T) {
	rec := weeklyRecord()
	rec.WeeklyUsageCount = 1
	rec.WeeklyResetDate = "2024-07-01"
	rec.WeeklyRecapWeekStart = "2024-07-01"

	got := freedom.EnsureWeeklyReset(rec, "2024-07-01")
	if got.WeeklyUsageCount != 1 {
		t.Errorf("expected usage preserved, got %d", got.WeeklyUsageCount)
	}
}

// nextDay advances a local-date string by one day, failing the test on
// malformed input.
func nextDay(t *testing.T, s string) string {
	t.Helper()
	n := dateutil.NextDay(s)
	if n == "" {
		t.Fatalf("bad date %q", s)
	}
	return n
}
