package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stridehq/stride/internal/domain"
)

func init() {
	addCmd.Flags().StringVar(&userFlag, "user", "", "User ID (defaults to this device's local user)")
	addCmd.Flags().StringVar(&addKind, "kind", "task", "Item kind: vision or task")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Optional notes")
	rootCmd.AddCommand(addCmd)
}

var (
	addKind  string
	addNotes string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a vision-board item or planner task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		title := strings.Join(args, " ")
		item, err := s.Planner.Add(cmd.Context(), s.userID, domain.ItemKind(addKind), title, addNotes)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %q (%s)\n", item.Kind, item.Title, item.ID)
		return nil
	},
}
