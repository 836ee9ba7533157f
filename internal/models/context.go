package models

import (
	"fmt"
	"strings"
)

// ContextWindow is the transient per-turn view of a user's recent history
// plus their full current preference set. It is recomputed every turn and
// never persisted.
type ContextWindow struct {
	User        User
	Turns       []ConversationTurn
	Preferences []Preference

	// Summary holds a condensed rendering of turns that were folded out
	// of the window to stay within the token budget. Empty when no
	// compression happened.
	Summary string
}

// EstimateTokens gives a rough token count for the window contents.
// Uses the ~4 chars per token heuristic; good enough for budgeting.
func (w ContextWindow) EstimateTokens() int {
	total := len(w.Summary)
	for _, t := range w.Turns {
		total += len(t.Content)
	}
	return total / 4
}

// Render formats the window as the context block of a completion request:
// user profile, grouped preferences, optional summary, then recent turns.
func (w ContextWindow) Render() string {
	var b strings.Builder

	if w.User.Name != nil && *w.User.Name != "" {
		fmt.Fprintf(&b, "User name: %s\n", *w.User.Name)
	}

	if len(w.Preferences) > 0 {
		b.WriteString("User preferences:\n")
		byType := map[string][]string{}
		var order []string
		for _, p := range w.Preferences {
			if _, seen := byType[p.Type]; !seen {
				order = append(order, p.Type)
			}
			byType[p.Type] = append(byType[p.Type], p.Value)
		}
		for _, t := range order {
			fmt.Fprintf(&b, "  - %s: %s\n", t, strings.Join(byType[t], ", "))
		}
	}

	if w.Summary != "" {
		fmt.Fprintf(&b, "Earlier conversation: %s\n", w.Summary)
	}

	for _, t := range w.Turns {
		role := t.Role
		if t.Role == RoleTool && t.ToolName != nil {
			role = "tool:" + *t.ToolName
		}
		fmt.Fprintf(&b, "%s: %s\n", role, t.Content)
	}

	return strings.TrimRight(b.String(), "\n")
}
