package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/filmwise/internal/models"
)

// Append records one immutable conversation turn. The autoincrement row
// id is the turn's sequence number; rows are never updated or deleted.
func (s *Store) Append(ctx context.Context, userID, role, content string, toolName *string) (models.ConversationTurn, error) {
	turn := models.ConversationTurn{
		UserID:    userID,
		Role:      role,
		Content:   content,
		ToolName:  toolName,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.db.ExecContext(
		ctx,
		"INSERT INTO conversation_turns (user_id, role, content, tool_name, created_at) VALUES (?, ?, ?, ?, ?)",
		userID, role, content, toolName, turn.CreatedAt,
	)
	if err != nil {
		return turn, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	turn.ID, err = res.LastInsertId()
	if err != nil {
		return turn, fmt.Errorf("turn id: %w", err)
	}
	return turn, nil
}

// Recent returns the most recent `limit` turns for a user in
// chronological order. Walks the (user_id, id) index backwards, so cost
// is proportional to limit, not to total history size.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT id, user_id, role, content, tool_name, created_at FROM conversation_turns WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.ToolName, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
