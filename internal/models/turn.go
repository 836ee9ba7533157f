package models

import "time"

// Turn roles. Tool turns carry the name of the tool that produced them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ConversationTurn is one immutable message in a user's conversation log.
// Turns form a strictly ordered append-only sequence per user; the
// autoincrement ID doubles as the sequence number.
type ConversationTurn struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ToolName  *string   `json:"tool_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
