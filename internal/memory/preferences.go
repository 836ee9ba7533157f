package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raphaelgruber/filmwise/internal/models"
)

// confidenceFloor is the lowest confidence decay can reach. Demoted
// values keep a trace so later reinforcement can recover them.
const confidenceFloor = 0.05

// GetPreferences returns all current preferences for a user, ordered by
// type then descending confidence. Unknown users get an empty set.
func (s *Store) GetPreferences(ctx context.Context, userID string) ([]models.Preference, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT id, user_id, pref_type, pref_value, confidence, created_at, updated_at FROM preferences WHERE user_id = ? ORDER BY pref_type ASC, confidence DESC, updated_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	prefs := []models.Preference{}
	for rows.Next() {
		var p models.Preference
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.Value, &p.Confidence, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return prefs, nil
}

// UpsertPreference reinforces or creates a (user, type, value) row.
// An existing row's confidence moves toward 1.0 by the fraction delta:
// c' = c + delta*(1-c), so repeated signals increase confidence
// monotonically without ever exceeding 1.0. A new row starts at delta.
func (s *Store) UpsertPreference(ctx context.Context, userID, prefType, value string, delta float64) (models.Preference, error) {
	now := time.Now().UTC()

	var p models.Preference
	err := s.db.QueryRowContext(
		ctx,
		"SELECT id, user_id, pref_type, pref_value, confidence, created_at, updated_at FROM preferences WHERE user_id = ? AND pref_type = ? AND pref_value = ?",
		userID, prefType, value,
	).Scan(&p.ID, &p.UserID, &p.Type, &p.Value, &p.Confidence, &p.CreatedAt, &p.UpdatedAt)

	switch {
	case err == nil:
		p.Confidence = clamp(p.Confidence + delta*(1-p.Confidence))
		p.UpdatedAt = now
		if _, err := s.db.ExecContext(
			ctx,
			"UPDATE preferences SET confidence = ?, updated_at = ? WHERE id = ?",
			p.Confidence, now, p.ID,
		); err != nil {
			return p, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return p, nil

	case errors.Is(err, sql.ErrNoRows):
		p = models.Preference{
			UserID:     userID,
			Type:       prefType,
			Value:      value,
			Confidence: clamp(delta),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		res, err := s.db.ExecContext(
			ctx,
			"INSERT INTO preferences (user_id, pref_type, pref_value, confidence, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			userID, prefType, value, p.Confidence, now, now,
		)
		if err != nil {
			return p, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		p.ID, _ = res.LastInsertId()
		return p, nil

	default:
		return p, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// ScaleConfidence multiplies a row's confidence by factor, with the
// floor applied. The contradicted value persists at low confidence
// instead of being deleted, allowing later decay or recovery.
func (s *Store) ScaleConfidence(ctx context.Context, userID, prefType, value string, factor float64) error {
	_, err := s.db.ExecContext(
		ctx,
		"UPDATE preferences SET confidence = MAX(?, confidence * ?), updated_at = ? WHERE user_id = ? AND pref_type = ? AND pref_value = ?",
		confidenceFloor, factor, time.Now().UTC(), userID, prefType, value,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Decay lowers the confidence of preferences of the given type not
// updated within horizon. Maintenance op; lets stale thresholds fade
// when newer signals contradict them. Does not refresh updated_at, so
// untouched rows keep decaying toward the floor on later runs.
func (s *Store) Decay(ctx context.Context, userID, prefType string, horizon time.Duration, factor float64) (int64, error) {
	cutoff := time.Now().UTC().Add(-horizon)

	res, err := s.db.ExecContext(
		ctx,
		"UPDATE preferences SET confidence = MAX(?, confidence * ?) WHERE user_id = ? AND pref_type = ? AND updated_at < ?",
		confidenceFloor, factor, userID, prefType, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Debug("preferences decayed", "user_id", userID, "type", prefType, "rows", n)
	}
	return n, nil
}

func clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
