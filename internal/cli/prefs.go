package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var prefsUser string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show a user's learned preferences",
	Long: `Show the preferences the assistant has learned for a user, grouped by
type and ordered by confidence.

Examples:
  filmwise prefs --user alice`,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().StringVarP(&prefsUser, "user", "u", "", "user name")
	_ = prefsCmd.MarkFlagRequired("user")
}

func runPrefs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	userID, err := resolveUser(ctx, prefsUser)
	if err != nil {
		return err
	}

	prefs, err := mem.GetPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("get preferences: %w", err)
	}

	if len(prefs) == 0 {
		fmt.Printf("No preferences learned for %s yet.\n", prefsUser)
		return nil
	}

	fmt.Printf("Preferences for %s:\n", prefsUser)
	lastType := ""
	for _, p := range prefs {
		if p.Type != lastType {
			fmt.Printf("  %s:\n", p.Type)
			lastType = p.Type
		}
		fmt.Printf("    %-24s confidence %.2f  (updated %s)\n",
			p.Value, p.Confidence, p.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}
