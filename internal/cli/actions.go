package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cleanCmd.Flags().StringVar(&userFlag, "user", "", "User ID (defaults to this device's local user)")
	brokeCmd.Flags().StringVar(&userFlag, "user", "", "User ID (defaults to this device's local user)")
	logCmd.Flags().StringVar(&userFlag, "user", "", "User ID (defaults to this device's local user)")
	rootCmd.AddCommand(cleanCmd, brokeCmd, logCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Mark today as a clean day on the freedom streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, res, err := s.Freedom.MarkCleanToday(cmd.Context(), s.userID, time.Now())
		if err != nil {
			return err
		}

		switch {
		case res.AlreadyBrokeToday:
			fmt.Println("Already marked broke today — tomorrow is a new day.")
		case res.LevelCompleted && res.EnteredWeeklyMode:
			fmt.Println("Ladder complete! You're in weekly control mode now.")
		case res.LevelCompleted:
			fmt.Printf("Level %d reached! Next target: %d clean days.\n", rec.CurrentLevel, rec.TargetDays)
		case rec.Weekly():
			fmt.Println("Clean day logged.")
		default:
			fmt.Printf("Clean day logged: %d/%d toward level %d.\n",
				rec.CurrentStreak, rec.TargetDays, rec.CurrentLevel+1)
		}
		return nil
	},
}

var brokeCmd = &cobra.Command{
	Use:   "broke",
	Short: "Record a slip on the freedom streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, _, err := s.Freedom.MarkBrokeIt(cmd.Context(), s.userID, time.Now())
		if err != nil {
			return err
		}

		if rec.Weekly() {
			fmt.Printf("Allowance used: %d/1 this week.\n", rec.WeeklyUsageCount)
		} else {
			fmt.Printf("Streak reset. Still level %d — keep going.\n", rec.CurrentLevel)
		}
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record an activity for today",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		now := time.Now()
		if _, err := s.Activity.Log(cmd.Context(), s.userID, now); err != nil {
			return err
		}
		rec, err := s.Streak.Record(cmd.Context(), s.userID, now)
		if err != nil {
			return err
		}
		fmt.Printf("Logged. Activity streak: %d day(s).\n", rec.CurrentStreak)
		return nil
	},
}
