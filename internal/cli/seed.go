package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter film catalog",
	Long: `Load the starter film catalog into the catalog store.

Seeding is idempotent: running it against a non-empty catalog adds
nothing.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	added, err := films.Seed(context.Background())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	if added == 0 {
		fmt.Println("Catalog already seeded.")
	} else {
		fmt.Printf("Seeded %d films.\n", added)
	}
	return nil
}
