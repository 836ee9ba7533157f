package tools

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/filmwise/internal/models"
)

// summaryFilmLimit caps how many films a summary lists.
const summaryFilmLimit = 10

// summaryActorLimit caps how many lead actors a summary names per film.
const summaryActorLimit = 3

// Result is the outcome of one executed tool call.
type Result struct {
	Call  Call
	Films []models.Film
}

// Count returns the number of films the call matched.
func (r Result) Count() int {
	return len(r.Films)
}

// Summary renders the result as the text block handed to the completion
// model and recorded as the tool turn.
func (r Result) Summary() string {
	criteria := r.Call.Criteria().String()
	if len(r.Films) == 0 {
		return fmt.Sprintf("No films found for %s (%s).", r.Call.Kind, criteria)
	}

	lines := []string{fmt.Sprintf("Found %d film(s) for %s (%s):", len(r.Films), r.Call.Kind, criteria)}
	for i, film := range r.Films {
		if i == summaryFilmLimit {
			break
		}
		actors := film.Actors
		if len(actors) > summaryActorLimit {
			actors = actors[:summaryActorLimit]
		}
		lines = append(lines, fmt.Sprintf(
			"%d. %s (%d) - Rating: %.1f/10\n   Genres: %s\n   Starring: %s",
			i+1, film.Title, film.Year, film.Rating,
			strings.Join(film.Genres, ", "),
			strings.Join(actors, ", "),
		))
	}
	return strings.Join(lines, "\n")
}
