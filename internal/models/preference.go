package models

import "time"

// Preference types. The set is extensible; these are the ones the
// extractor currently produces.
const (
	PrefGenre     = "genre"
	PrefActor     = "actor"
	PrefRatingMin = "rating_min"
)

// Preference is a durable, confidence-weighted fact about a user's taste.
// At most one current row exists per (user, type, value); repeated signals
// adjust Confidence and UpdatedAt instead of duplicating rows.
type Preference struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ExclusiveType reports whether a preference type admits only one
// meaningful current value. Additive types (genre, actor) may coexist;
// exclusive types (rating_min) are resolved by the extractor's merge
// policy, which demotes the old value rather than deleting it.
func ExclusiveType(prefType string) bool {
	return prefType == PrefRatingMin
}
