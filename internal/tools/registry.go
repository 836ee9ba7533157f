// Package tools provides the closed set of film query tools the agent can
// execute against the catalog. Every tool is a typed call validated before
// dispatch; there is no dynamic tool discovery.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/filmwise/internal/catalog"
	"github.com/raphaelgruber/filmwise/internal/models"
)

// Kind identifies one catalog query tool.
type Kind string

const (
	KindSearchByTitle  Kind = "search_by_title"
	KindFilterByGenre  Kind = "filter_by_genre"
	KindSearchByRating Kind = "search_by_rating"
	KindSearchByActor  Kind = "search_by_actor"
	KindSearchFilms    Kind = "search_films"
)

var (
	// ErrUnknownTool is returned for a Kind outside the registered set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArgs is returned when a call's arguments do not fit its
	// kind, either a required field is missing or a field the kind does
	// not accept is set.
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

// Args carries the arguments for any tool kind. Which fields are
// required or allowed depends on the kind; Validate enforces the fit.
type Args struct {
	Title     string
	Genre     string
	Actor     string
	MinRating *float64
	MaxRating *float64
}

// Call is one validated, executable tool invocation.
type Call struct {
	Kind Kind
	Args Args
}

// Validate checks the call's arguments against its kind. Single-criterion
// tools reject extra fields so a routing bug surfaces here instead of as
// a silently narrower query.
func (c Call) Validate() error {
	a := c.Args
	switch c.Kind {
	case KindSearchByTitle:
		if a.Title == "" {
			return fmt.Errorf("%w: %s requires a title", ErrInvalidArgs, c.Kind)
		}
		if a.Genre != "" || a.Actor != "" || a.MinRating != nil || a.MaxRating != nil {
			return fmt.Errorf("%w: %s accepts only a title", ErrInvalidArgs, c.Kind)
		}
	case KindFilterByGenre:
		if a.Genre == "" {
			return fmt.Errorf("%w: %s requires a genre", ErrInvalidArgs, c.Kind)
		}
		if a.Title != "" || a.Actor != "" || a.MinRating != nil || a.MaxRating != nil {
			return fmt.Errorf("%w: %s accepts only a genre", ErrInvalidArgs, c.Kind)
		}
	case KindSearchByRating:
		if a.MinRating == nil {
			return fmt.Errorf("%w: %s requires a minimum rating", ErrInvalidArgs, c.Kind)
		}
		if a.MaxRating != nil && *a.MaxRating < *a.MinRating {
			return fmt.Errorf("%w: rating range %.1f..%.1f is inverted", ErrInvalidArgs, *a.MinRating, *a.MaxRating)
		}
		if a.Title != "" || a.Genre != "" || a.Actor != "" {
			return fmt.Errorf("%w: %s accepts only a rating range", ErrInvalidArgs, c.Kind)
		}
	case KindSearchByActor:
		if a.Actor == "" {
			return fmt.Errorf("%w: %s requires an actor name", ErrInvalidArgs, c.Kind)
		}
		if a.Title != "" || a.Genre != "" || a.MinRating != nil || a.MaxRating != nil {
			return fmt.Errorf("%w: %s accepts only an actor name", ErrInvalidArgs, c.Kind)
		}
	case KindSearchFilms:
		if a.Title == "" && a.Genre == "" && a.Actor == "" && a.MinRating == nil {
			return fmt.Errorf("%w: %s requires at least one criterion", ErrInvalidArgs, c.Kind)
		}
		if a.MaxRating != nil {
			return fmt.Errorf("%w: %s does not accept a maximum rating", ErrInvalidArgs, c.Kind)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTool, c.Kind)
	}
	return nil
}

// Criteria translates the call into the catalog's compound filter form,
// used both for execution and for logging what actually ran.
func (c Call) Criteria() catalog.Criteria {
	switch c.Kind {
	case KindSearchByTitle:
		return catalog.Criteria{Title: c.Args.Title}
	case KindFilterByGenre:
		return catalog.Criteria{Genre: c.Args.Genre}
	case KindSearchByActor:
		return catalog.Criteria{Actor: c.Args.Actor}
	case KindSearchByRating:
		return catalog.Criteria{MinRating: c.Args.MinRating}
	default:
		return catalog.Criteria{
			Title:     c.Args.Title,
			Genre:     c.Args.Genre,
			Actor:     c.Args.Actor,
			MinRating: c.Args.MinRating,
		}
	}
}

// maxRatingCeiling bounds open-ended rating searches; catalog ratings
// are on a 0..10 scale.
const maxRatingCeiling = 10.0

// Registry executes tool calls against the film catalog.
type Registry struct {
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewRegistry creates a registry backed by the given catalog store.
func NewRegistry(store *catalog.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{catalog: store, logger: logger}
}

// Kinds returns the registered tool kinds in a fixed order.
func (r *Registry) Kinds() []Kind {
	return []Kind{
		KindSearchByTitle,
		KindFilterByGenre,
		KindSearchByRating,
		KindSearchByActor,
		KindSearchFilms,
	}
}

// Execute validates and runs one tool call. An empty film list is a
// successful result, not an error.
func (r *Registry) Execute(ctx context.Context, call Call) (Result, error) {
	if err := call.Validate(); err != nil {
		return Result{}, err
	}

	var (
		films []models.Film
		err   error
	)
	switch call.Kind {
	case KindSearchByTitle:
		films, err = r.catalog.SearchByTitle(ctx, call.Args.Title)
	case KindFilterByGenre:
		films, err = r.catalog.FilterByGenre(ctx, call.Args.Genre)
	case KindSearchByRating:
		max := maxRatingCeiling
		if call.Args.MaxRating != nil {
			max = *call.Args.MaxRating
		}
		films, err = r.catalog.SearchByRating(ctx, *call.Args.MinRating, max)
	case KindSearchByActor:
		films, err = r.catalog.SearchByActor(ctx, call.Args.Actor)
	case KindSearchFilms:
		films, err = r.catalog.SearchFilms(ctx, call.Criteria())
	}
	if err != nil {
		return Result{}, fmt.Errorf("execute %s: %w", call.Kind, err)
	}

	r.logger.Debug("tool executed", "tool", call.Kind, "criteria", call.Criteria().String(), "results", len(films))
	return Result{Call: call, Films: films}, nil
}
