package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/filmwise/internal/models"
)

var decayUser string

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Fade stale preferences for a user",
	Long: `Lower the confidence of preferences that have not been reinforced
within the configured horizon. Decayed preferences keep a small residual
confidence so they can recover if mentioned again.

Examples:
  filmwise decay --user alice`,
	RunE: runDecay,
}

func init() {
	decayCmd.Flags().StringVarP(&decayUser, "user", "u", "", "user name")
	_ = decayCmd.MarkFlagRequired("user")
}

func runDecay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	userID, err := resolveUser(ctx, decayUser)
	if err != nil {
		return err
	}

	var total int64
	for _, prefType := range []string{models.PrefGenre, models.PrefActor, models.PrefRatingMin} {
		n, err := mem.Decay(ctx, userID, prefType, cfg.DecayHorizon, cfg.DecayFactor)
		if err != nil {
			return fmt.Errorf("decay %s preferences: %w", prefType, err)
		}
		total += n
	}

	fmt.Printf("Decayed %d stale preference(s) for %s.\n", total, decayUser)
	return nil
}
