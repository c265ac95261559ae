package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/stridehq/stride/internal/domain"
)

func init() {
	statusCmd.Flags().StringVar(&userFlag, "user", "", "User ID (defaults to this device's local user)")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show streaks and this week's recap",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	now := time.Now()

	rec, err := s.Streak.Get(ctx, s.userID)
	if err != nil {
		return err
	}
	fmt.Printf("Activity streak: %d day(s) (longest %d)\n", rec.CurrentStreak, rec.LongestStreak)
	if rec.LastActiveDate != "" {
		fmt.Printf("  Last active: %s\n", rec.LastActiveDate)
	}

	fr, err := s.Freedom.Get(ctx, s.userID, now)
	if err != nil {
		return err
	}
	if fr.Weekly() {
		fmt.Printf("Freedom streak: weekly control mode (%d/1 allowance used this week)\n", fr.WeeklyUsageCount)
	} else {
		fmt.Printf("Freedom streak: level %d — %d/%d clean day(s)\n",
			fr.CurrentLevel, fr.CurrentStreak, fr.TargetDays)
	}

	if len(fr.WeeklyActions) > 0 {
		fmt.Println("This week:")
		days := make([]string, 0, len(fr.WeeklyActions))
		for d := range fr.WeeklyActions {
			days = append(days, d)
		}
		sort.Strings(days)
		for _, d := range days {
			mark := "+"
			if fr.WeeklyActions[d] == domain.ActionBroke {
				mark = "x"
			}
			fmt.Printf("  %s %s\n", mark, d)
		}
	}

	return nil
}
