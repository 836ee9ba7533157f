package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Show what the assistant has accumulated: users, conversation turns,
preferences, and the size of the film catalog.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := mem.CollectStats(ctx)
	if err != nil {
		return fmt.Errorf("collect memory stats: %w", err)
	}

	genres, err := films.AllGenres(ctx)
	if err != nil {
		return fmt.Errorf("collect catalog stats: %w", err)
	}

	fmt.Println("Memory store:")
	fmt.Printf("  Users:              %d\n", st.Users)
	fmt.Printf("  Conversation turns: %d\n", st.Turns)
	fmt.Printf("  Preferences:        %d\n", st.Preferences)
	fmt.Println("Catalog store:")
	fmt.Printf("  Genres:             %d\n", len(genres))
	return nil
}
