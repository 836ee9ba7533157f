package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askUser string

var askCmd = &cobra.Command{
	Use:   "ask <utterance>",
	Short: "Ask the film assistant a single question",
	Long: `Ask the film assistant one question and print the reply.

The turn goes through the full pipeline: your recent conversation and
learned preferences are folded into the request, film lookups run
against the local catalog, and preference signals in the utterance are
remembered for next time.

Examples:
  filmwise ask "show me some sci-fi movies"
  filmwise ask --user alice "movies starring Tom Hanks rated above 8"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "", "user name (anonymous if empty)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := ensureSeeded(ctx); err != nil {
		return err
	}

	userID, err := resolveUser(ctx, askUser)
	if err != nil {
		return err
	}

	orch, err := getOrchestrator()
	if err != nil {
		return err
	}

	turn, err := orch.Process(ctx, userID, args[0])
	if err != nil {
		// The turn still carries a user-visible degraded reply.
		fmt.Println(turn.Reply)
		return err
	}

	fmt.Println(turn.Reply)
	return nil
}
