package memory

import (
	"context"
	"testing"
	"time"

	"github.com/raphaelgruber/filmwise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPreferenceReinforcement(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	p, err := store.UpsertPreference(ctx, userID, models.PrefGenre, "sci-fi", 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p.Confidence, 1e-9)

	// c' = c + d*(1-c): 0.3 + 0.3*0.7 = 0.51
	p, err = store.UpsertPreference(ctx, userID, models.PrefGenre, "sci-fi", 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.51, p.Confidence, 1e-9)

	// Monotone and bounded: many reinforcements approach but never pass 1.0
	for i := 0; i < 50; i++ {
		prev := p.Confidence
		p, err = store.UpsertPreference(ctx, userID, models.PrefGenre, "sci-fi", 0.3)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Confidence, prev)
		assert.LessOrEqual(t, p.Confidence, 1.0)
	}
}

func TestUpsertDoesNotDuplicateRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	first, err := store.UpsertPreference(ctx, userID, models.PrefGenre, "drama", 0.4)
	require.NoError(t, err)
	second, err := store.UpsertPreference(ctx, userID, models.PrefGenre, "drama", 0.4)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	prefs, err := store.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, prefs, 1)
}

func TestGetPreferencesOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	_, err = store.UpsertPreference(ctx, userID, models.PrefGenre, "comedy", 0.2)
	require.NoError(t, err)
	_, err = store.UpsertPreference(ctx, userID, models.PrefGenre, "thriller", 0.9)
	require.NoError(t, err)
	_, err = store.UpsertPreference(ctx, userID, models.PrefActor, "Tom Hanks", 0.5)
	require.NoError(t, err)

	prefs, err := store.GetPreferences(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 3)

	// Type ascending, then confidence descending within type
	assert.Equal(t, models.PrefActor, prefs[0].Type)
	assert.Equal(t, "thriller", prefs[1].Value)
	assert.Equal(t, "comedy", prefs[2].Value)
}

func TestGetPreferencesUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	prefs, err := store.GetPreferences(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestScaleConfidenceKeepsFloor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	_, err = store.UpsertPreference(ctx, userID, models.PrefRatingMin, "8.0", 0.1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.ScaleConfidence(ctx, userID, models.PrefRatingMin, "8.0", 0.5))
	}

	prefs, err := store.GetPreferences(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1, "contradicted value persists, never deleted")
	assert.InDelta(t, confidenceFloor, prefs[0].Confidence, 1e-9)
}

func TestDecay(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	userID, err := store.GetOrCreateUser(ctx, "")
	require.NoError(t, err)

	_, err = store.UpsertPreference(ctx, userID, models.PrefRatingMin, "7.5", 0.8)
	require.NoError(t, err)

	t.Run("fresh rows are untouched", func(t *testing.T) {
		n, err := store.Decay(ctx, userID, models.PrefRatingMin, time.Hour, 0.8)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("stale rows fade", func(t *testing.T) {
		// Zero horizon makes every row stale
		n, err := store.Decay(ctx, userID, models.PrefRatingMin, -time.Second, 0.8)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		prefs, err := store.GetPreferences(ctx, userID)
		require.NoError(t, err)
		require.Len(t, prefs, 1)
		assert.InDelta(t, 0.64, prefs[0].Confidence, 1e-9)
	})
}
