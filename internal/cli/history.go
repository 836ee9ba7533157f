package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/filmwise/internal/models"
)

var (
	historyUser  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's recent conversation turns",
	Long: `Show the most recent conversation turns for a user in chronological
order.

Examples:
  filmwise history --user alice
  filmwise history --user alice -n 50`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "user name")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max turns to show")
	_ = historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	userID, err := resolveUser(ctx, historyUser)
	if err != nil {
		return err
	}

	turns, err := mem.Recent(ctx, userID, historyLimit)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}

	if len(turns) == 0 {
		fmt.Printf("No conversation recorded for %s yet.\n", historyUser)
		return nil
	}

	for _, t := range turns {
		role := t.Role
		if t.Role == models.RoleTool && t.ToolName != nil {
			role = "tool:" + *t.ToolName
		}
		fmt.Printf("[%s] %-24s %s\n", t.CreatedAt.Format("2006-01-02 15:04"), role, t.Content)
	}
	return nil
}
