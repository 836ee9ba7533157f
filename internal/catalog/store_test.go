package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "films.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	added, err := store.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(seedFilms), added)

	return store
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	added, err := store.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, added, "second seed should not add films")
}

func TestSearchByTitle(t *testing.T) {
	store := newTestStore(t)

	t.Run("partial case-insensitive match", func(t *testing.T) {
		films, err := store.SearchByTitle(context.Background(), "matrix")
		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, "The Matrix", films[0].Title)
		assert.ElementsMatch(t, []string{"Action", "Sci-Fi"}, films[0].Genres)
		assert.Contains(t, films[0].Actors, "Keanu Reeves")
	})

	t.Run("no match is empty, not error", func(t *testing.T) {
		films, err := store.SearchByTitle(context.Background(), "zzzzz")
		require.NoError(t, err)
		assert.Empty(t, films)
	})
}

func TestFilterByGenreOrdering(t *testing.T) {
	store := newTestStore(t)

	films, err := store.FilterByGenre(context.Background(), "sci-fi")
	require.NoError(t, err)
	require.NotEmpty(t, films)

	// Rating descending, title ascending on ties
	for i := 1; i < len(films); i++ {
		prev, cur := films[i-1], films[i]
		if prev.Rating == cur.Rating {
			assert.Less(t, prev.Title, cur.Title)
		} else {
			assert.Greater(t, prev.Rating, cur.Rating)
		}
	}

	assert.Equal(t, "Inception", films[0].Title)
}

func TestSearchByRating(t *testing.T) {
	store := newTestStore(t)

	films, err := store.SearchByRating(context.Background(), 9.0, 10.0)
	require.NoError(t, err)

	var titles []string
	for _, f := range films {
		assert.GreaterOrEqual(t, f.Rating, 9.0)
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"The Shawshank Redemption", "The Godfather", "Schindler's List", "The Dark Knight"}, titles)
}

func TestSearchByActor(t *testing.T) {
	store := newTestStore(t)

	films, err := store.SearchByActor(context.Background(), "hanks")
	require.NoError(t, err)
	require.NotEmpty(t, films)

	for _, f := range films {
		assert.Contains(t, f.Actors, "Tom Hanks")
	}
}

func TestSearchFilmsConjunction(t *testing.T) {
	store := newTestStore(t)

	min := 8.0
	films, err := store.SearchFilms(context.Background(), Criteria{Genre: "Action", MinRating: &min})
	require.NoError(t, err)

	var titles []string
	for _, f := range films {
		assert.Greater(t, f.Rating, 8.0, "min rating bound is strict")
		assert.Contains(t, f.Genres, "Action")
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{
		"The Dark Knight",
		"Inception",
		"The Matrix",
		"Gladiator",
		"Die Hard",
		"Mad Max: Fury Road",
	}, titles)
}

func TestSearchFilmsEmptyConjunctionResult(t *testing.T) {
	store := newTestStore(t)

	min := 9.5
	films, err := store.SearchFilms(context.Background(), Criteria{Genre: "Comedy", MinRating: &min})
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestSearchFilmsActorAndGenre(t *testing.T) {
	store := newTestStore(t)

	films, err := store.SearchFilms(context.Background(), Criteria{Actor: "Tom Hanks", Genre: "Animation"})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, "Toy Story", films[0].Title)
}

func TestAllGenres(t *testing.T) {
	store := newTestStore(t)

	genres, err := store.AllGenres(context.Background())
	require.NoError(t, err)
	assert.Contains(t, genres, "Sci-Fi")
	assert.Contains(t, genres, "Drama")
	assert.IsIncreasing(t, genres)
}
