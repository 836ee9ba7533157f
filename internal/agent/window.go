package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/filmwise/internal/memory"
	"github.com/raphaelgruber/filmwise/internal/models"
)

// compressionKeep is how many recent turns survive a compression pass;
// windows at or below this size are never compressed.
const compressionKeep = 10

// summaryQueryLimit caps how many distinct user queries the compression
// summary names.
const summaryQueryLimit = 5

// Assembler builds the short-term context window for a turn. Store
// failures degrade to an empty window with a warning; context assembly
// never fails a turn.
type Assembler struct {
	memory      *memory.Store
	turnLimit   int
	tokenBudget int
	logger      *slog.Logger
}

// NewAssembler creates a context assembler bounded by the given turn
// count and approximate token budget.
func NewAssembler(store *memory.Store, turnLimit, tokenBudget int, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		memory:      store,
		turnLimit:   turnLimit,
		tokenBudget: tokenBudget,
		logger:      logger,
	}
}

// Assemble fetches the user record, recent turns, and the full
// preference snapshot, then compresses older turns if the window
// exceeds the token budget.
func (a *Assembler) Assemble(ctx context.Context, userID string) models.ContextWindow {
	var win models.ContextWindow

	user, err := a.memory.GetUser(ctx, userID)
	if err != nil {
		a.logger.Warn("context assembly: user lookup failed", "user_id", userID, "error", err)
		win.User = models.User{ID: userID}
	} else {
		win.User = user
	}

	turns, err := a.memory.Recent(ctx, userID, a.turnLimit)
	if err != nil {
		a.logger.Warn("context assembly: recent turns unavailable", "user_id", userID, "error", err)
	} else {
		win.Turns = turns
	}

	prefs, err := a.memory.GetPreferences(ctx, userID)
	if err != nil {
		a.logger.Warn("context assembly: preferences unavailable", "user_id", userID, "error", err)
	} else {
		win.Preferences = prefs
	}

	a.compress(&win)
	return win
}

// compress folds older turns into a deterministic summary line when the
// window exceeds the token budget, keeping the most recent turns intact.
func (a *Assembler) compress(win *models.ContextWindow) {
	if win.EstimateTokens() <= a.tokenBudget || len(win.Turns) <= compressionKeep {
		return
	}

	folded := win.Turns[:len(win.Turns)-compressionKeep]
	win.Summary = summarizeTurns(folded)
	win.Turns = win.Turns[len(win.Turns)-compressionKeep:]

	a.logger.Debug("context compressed",
		"user_id", win.User.ID, "folded_turns", len(folded), "summary", win.Summary)
}

// summarizeTurns renders folded turns as the distinct user queries and
// tools used, preserving first-seen order.
func summarizeTurns(turns []models.ConversationTurn) string {
	var (
		queries []string
		toolSet []string
		seenQ   = map[string]bool{}
		seenT   = map[string]bool{}
	)
	for _, t := range turns {
		switch t.Role {
		case models.RoleUser:
			if !seenQ[t.Content] && len(queries) < summaryQueryLimit {
				seenQ[t.Content] = true
				queries = append(queries, t.Content)
			}
		case models.RoleTool:
			if t.ToolName != nil && !seenT[*t.ToolName] {
				seenT[*t.ToolName] = true
				toolSet = append(toolSet, *t.ToolName)
			}
		}
	}

	var parts []string
	if len(queries) > 0 {
		parts = append(parts, fmt.Sprintf("User asked about: %s", strings.Join(queries, ", ")))
	}
	if len(toolSet) > 0 {
		parts = append(parts, fmt.Sprintf("Tools used: %s", strings.Join(toolSet, ", ")))
	}
	if len(parts) == 0 {
		return "General film discussion"
	}
	return strings.Join(parts, ". ")
}
