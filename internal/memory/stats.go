package memory

import (
	"context"
	"fmt"
)

// Stats summarizes the durable contents of the memory store.
type Stats struct {
	Users       int64
	Turns       int64
	Preferences int64
}

// CollectStats counts users, conversation turns, and preferences.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM users", &st.Users},
		{"SELECT COUNT(*) FROM conversation_turns", &st.Turns},
		{"SELECT COUNT(*) FROM preferences", &st.Preferences},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return st, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return st, nil
}
