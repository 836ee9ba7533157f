package catalog

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/raphaelgruber/filmwise/internal/models"
)

// Result limits keep tool output bounded for the completion request.
const (
	titleLimit  = 10
	filterLimit = 20
)

// Criteria is a conjunction of film filters for multi-criteria search.
// Zero-valued fields are not applied.
type Criteria struct {
	Title     string
	Genre     string
	Actor     string
	MinRating *float64
}

// Empty reports whether no filter is set.
func (c Criteria) Empty() bool {
	return c.Title == "" && c.Genre == "" && c.Actor == "" && c.MinRating == nil
}

// String renders the criteria for logs and tool turn content.
func (c Criteria) String() string {
	var parts []string
	if c.Title != "" {
		parts = append(parts, "title~"+c.Title)
	}
	if c.Actor != "" {
		parts = append(parts, "actor~"+c.Actor)
	}
	if c.Genre != "" {
		parts = append(parts, "genre="+c.Genre)
	}
	if c.MinRating != nil {
		parts = append(parts, fmt.Sprintf("rating>%.1f", *c.MinRating))
	}
	return strings.Join(parts, " ")
}

// SearchByTitle finds films whose title contains the given substring,
// case-insensitive. Results ordered by rating descending, title ascending.
func (s *Store) SearchByTitle(ctx context.Context, title string) ([]models.Film, error) {
	q := filmSelect().
		Where("LOWER(f.title) LIKE LOWER(?)", "%"+title+"%").
		Limit(titleLimit)
	return s.queryFilms(ctx, q)
}

// FilterByGenre finds films tagged with the given genre, exact name match,
// case-insensitive.
func (s *Store) FilterByGenre(ctx context.Context, genre string) ([]models.Film, error) {
	q := filmSelect().
		Join("film_genres fg ON fg.film_id = f.id").
		Join("genres g ON g.id = fg.genre_id").
		Where("LOWER(g.name) = LOWER(?)", genre).
		Limit(filterLimit)
	return s.queryFilms(ctx, q)
}

// SearchByRating finds films with rating in [min, max].
func (s *Store) SearchByRating(ctx context.Context, min, max float64) ([]models.Film, error) {
	q := filmSelect().
		Where(sq.And{
			sq.GtOrEq{"f.rating": min},
			sq.LtOrEq{"f.rating": max},
		}).
		Limit(filterLimit)
	return s.queryFilms(ctx, q)
}

// SearchByActor finds films featuring an actor whose name contains the
// given substring, case-insensitive.
func (s *Store) SearchByActor(ctx context.Context, name string) ([]models.Film, error) {
	q := filmSelect().
		Join("film_actors fa ON fa.film_id = f.id").
		Join("actors a ON a.id = fa.actor_id").
		Where("LOWER(a.name) LIKE LOWER(?)", "%"+name+"%").
		Limit(filterLimit)
	return s.queryFilms(ctx, q)
}

// SearchFilms applies all set criteria as a single conjunction. It backs
// the multi-criteria tool, so compound utterances resolve in one
// deterministic query instead of an application-side intersection.
func (s *Store) SearchFilms(ctx context.Context, c Criteria) ([]models.Film, error) {
	q := filmSelect().Limit(filterLimit)

	if c.Title != "" {
		q = q.Where("LOWER(f.title) LIKE LOWER(?)", "%"+c.Title+"%")
	}
	if c.Actor != "" {
		q = q.Join("film_actors fa ON fa.film_id = f.id").
			Join("actors a ON a.id = fa.actor_id").
			Where("LOWER(a.name) LIKE LOWER(?)", "%"+c.Actor+"%")
	}
	if c.Genre != "" {
		q = q.Join("film_genres fg ON fg.film_id = f.id").
			Join("genres g ON g.id = fg.genre_id").
			Where("LOWER(g.name) = LOWER(?)", c.Genre)
	}
	if c.MinRating != nil {
		q = q.Where(sq.Gt{"f.rating": *c.MinRating})
	}

	return s.queryFilms(ctx, q)
}

// filmSelect is the shared base select with the deterministic ordering
// all catalog queries use: rating descending, then title ascending.
func filmSelect() sq.SelectBuilder {
	return builder().
		Select("DISTINCT f.id", "f.title", "f.year", "f.rating", "f.description").
		From("films f").
		OrderBy("f.rating DESC", "f.title ASC")
}

func (s *Store) queryFilms(ctx context.Context, q sq.SelectBuilder) ([]models.Film, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build film query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	films := []models.Film{}
	for rows.Next() {
		var f models.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.Year, &f.Rating, &f.Description); err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Attach genre and actor lists
	for i := range films {
		if films[i].Genres, err = s.filmNames(ctx, "genres", "film_genres", "genre_id", films[i].ID); err != nil {
			return nil, err
		}
		if films[i].Actors, err = s.filmNames(ctx, "actors", "film_actors", "actor_id", films[i].ID); err != nil {
			return nil, err
		}
	}

	return films, nil
}

// filmNames fetches the ordered genre or actor names linked to a film.
func (s *Store) filmNames(ctx context.Context, table, joinTable, joinCol string, filmID int64) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT t.name FROM %s t JOIN %s j ON j.%s = t.id WHERE j.film_id = ? ORDER BY t.name ASC",
		table, joinTable, joinCol,
	)

	rows, err := s.db.QueryContext(ctx, query, filmID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
