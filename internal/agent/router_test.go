package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/filmwise/internal/tools"
)

func TestRouteQuotedTitle(t *testing.T) {
	plan, err := Route(`Tell me about "The Matrix"`)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchByTitle, plan[0].Kind)
	assert.Equal(t, "The Matrix", plan[0].Args.Title)
}

func TestRouteNamedTitle(t *testing.T) {
	plan, err := Route("Is there a film called inception")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchByTitle, plan[0].Kind)
	assert.Equal(t, "inception", plan[0].Args.Title)
}

func TestRouteActor(t *testing.T) {
	plan, err := Route("Show me films starring Tom Hanks")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchByActor, plan[0].Kind)
	assert.Equal(t, "Tom Hanks", plan[0].Args.Actor)
}

func TestRouteGenre(t *testing.T) {
	tests := []struct {
		utterance string
		genre     string
	}{
		{"show me some action movies", "Action"},
		{"any good science fiction films?", "Sci-Fi"},
		{"I want something funny", "Comedy"},
		{"recommend a scary movie", "Horror"},
		{"an animated film please", "Animation"},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			plan, err := Route(tt.utterance)
			require.NoError(t, err)
			require.Len(t, plan, 1)
			assert.Equal(t, tools.KindFilterByGenre, plan[0].Kind)
			assert.Equal(t, tt.genre, plan[0].Args.Genre)
		})
	}
}

func TestRouteRating(t *testing.T) {
	plan, err := Route("movies rated above 8")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchByRating, plan[0].Kind)
	require.NotNil(t, plan[0].Args.MinRating)
	assert.Equal(t, 8.0, *plan[0].Args.MinRating)
}

func TestRouteTopRatedImpliesThreshold(t *testing.T) {
	plan, err := Route("what are the top rated films")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchByRating, plan[0].Kind)
	require.NotNil(t, plan[0].Args.MinRating)
	assert.Equal(t, topRatedThreshold, *plan[0].Args.MinRating)
}

func TestRouteCompound(t *testing.T) {
	plan, err := Route("action movies with a rating above 8")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchFilms, plan[0].Kind)
	assert.Equal(t, "Action", plan[0].Args.Genre)
	require.NotNil(t, plan[0].Args.MinRating)
	assert.Equal(t, 8.0, *plan[0].Args.MinRating)
}

func TestRouteCompoundGenreActor(t *testing.T) {
	plan, err := Route("sci-fi films starring Keanu Reeves")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, tools.KindSearchFilms, plan[0].Kind)
	assert.Equal(t, "Sci-Fi", plan[0].Args.Genre)
	assert.Equal(t, "Keanu Reeves", plan[0].Args.Actor)
}

func TestRouteNoMatch(t *testing.T) {
	_, err := Route("hello there, how are you?")
	require.ErrorIs(t, err, ErrNoToolMatch)
}

func TestRouteIsIdempotent(t *testing.T) {
	utterance := "best action movies starring Tom Cruise"
	first, err := Route(utterance)
	require.NoError(t, err)
	second, err := Route(utterance)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
