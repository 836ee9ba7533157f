package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/filmwise/internal/models"
)

// GetUser fetches a user by ID. Returns sql.ErrNoRows wrapped for
// unknown users.
func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(
		ctx,
		"SELECT id, name, created_at, last_active FROM users WHERE id = ?",
		userID,
	).Scan(&u.ID, &u.Name, &u.CreatedAt, &u.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %s: %w", userID, err)
	}
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return u, nil
}

// GetOrCreateUser finds a user by name, or creates a fresh one. Users
// with no name always get a fresh identity. Returns the user ID.
func (s *Store) GetOrCreateUser(ctx context.Context, name string) (string, error) {
	if name != "" {
		var id string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE name = ?", name).Scan(&id)
		if err == nil {
			if err := s.TouchUser(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	var nameVal any
	if name != "" {
		nameVal = name
	}
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO users (id, name, created_at, last_active) VALUES (?, ?, ?, ?)",
		id, nameVal, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("user created", "user_id", id, "named", name != "")
	return id, nil
}

// SetUserName sets or updates the user's display name.
func (s *Store) SetUserName(ctx context.Context, userID, name string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET name = ? WHERE id = ?", name, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// TouchUser refreshes the user's last-active timestamp.
func (s *Store) TouchUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET last_active = ? WHERE id = ?", time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
