package models

import "time"

// User identifies a conversation partner across sessions.
// Created on first contact; LastActive is refreshed on every turn.
// The agent never deletes users.
type User struct {
	ID         string    `json:"id"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// DisplayName returns the user's name or a fallback for anonymous users.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "there"
}
