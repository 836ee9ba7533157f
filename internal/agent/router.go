// Package agent implements the per-turn pipeline: context assembly,
// intent routing, tool execution, completion, persistence, and preference
// extraction.
package agent

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/raphaelgruber/filmwise/internal/tools"
)

// ErrNoToolMatch is returned when an utterance carries no film query
// criteria; the orchestrator falls back to a plain completion.
var ErrNoToolMatch = errors.New("no tool match")

// topRatedThreshold is the implied minimum rating for utterances like
// "top rated" or "the best" that name no number.
const topRatedThreshold = 8.0

// genreKeywords maps catalog genre names to the phrasings users reach
// for. Matching is substring-based on the lowercased utterance; the
// slice order makes the first match deterministic.
var genreKeywords = []struct {
	name     string
	synonyms []string
}{
	{"Sci-Fi", []string{"sci-fi", "science fiction", "scifi"}},
	{"Action", []string{"action"}},
	{"Drama", []string{"drama"}},
	{"Comedy", []string{"comedy", "funny"}},
	{"Thriller", []string{"thriller", "suspense"}},
	{"Horror", []string{"horror", "scary"}},
	{"Romance", []string{"romance", "romantic"}},
	{"Animation", []string{"animation", "animated"}},
	{"Crime", []string{"crime", "heist", "gangster"}},
}

var (
	quotedTitleRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	namedTitleRe  = regexp.MustCompile(`(?i)(?:called|titled)\s+([a-z0-9][a-z0-9 :'-]*)`)
	actorRe       = regexp.MustCompile(`(?:starring|featuring|with)\s+([A-Z][a-zA-Z.'-]*(?:\s+[A-Z][a-zA-Z.'-]*)*)`)
	ratingNumRe   = regexp.MustCompile(`(?i)(?:rating|rated|rate)\s*(?:above|over|higher than|greater than|of at least)\s*(\d+(?:\.\d+)?)`)
	atLeastRe     = regexp.MustCompile(`(?i)at least\s+(\d+(?:\.\d+)?)`)
	topRatedRe    = regexp.MustCompile(`(?i)top[ -]rated|highly rated|high rating|\bbest\b`)
)

// criteria is what the router read out of one utterance, ordered by
// selectivity: title, then actor, then genre, then rating.
type criteria struct {
	title  string
	actor  string
	genre  string
	rating *float64
}

func (c criteria) count() int {
	n := 0
	if c.title != "" {
		n++
	}
	if c.actor != "" {
		n++
	}
	if c.genre != "" {
		n++
	}
	if c.rating != nil {
		n++
	}
	return n
}

// Route maps an utterance to an ordered tool plan. A single criterion
// yields the matching single tool; two or more yield one compound
// search_films call. Route is a pure function of the utterance so a
// turn's plan cannot change between routing and execution.
func Route(utterance string) ([]tools.Call, error) {
	c := extractCriteria(utterance)

	switch c.count() {
	case 0:
		return nil, ErrNoToolMatch
	case 1:
		return []tools.Call{singleCall(c)}, nil
	default:
		return []tools.Call{{
			Kind: tools.KindSearchFilms,
			Args: tools.Args{
				Title:     c.title,
				Actor:     c.actor,
				Genre:     c.genre,
				MinRating: c.rating,
			},
		}}, nil
	}
}

func singleCall(c criteria) tools.Call {
	switch {
	case c.title != "":
		return tools.Call{Kind: tools.KindSearchByTitle, Args: tools.Args{Title: c.title}}
	case c.actor != "":
		return tools.Call{Kind: tools.KindSearchByActor, Args: tools.Args{Actor: c.actor}}
	case c.genre != "":
		return tools.Call{Kind: tools.KindFilterByGenre, Args: tools.Args{Genre: c.genre}}
	default:
		return tools.Call{Kind: tools.KindSearchByRating, Args: tools.Args{MinRating: c.rating}}
	}
}

func extractCriteria(utterance string) criteria {
	var c criteria
	lower := strings.ToLower(utterance)

	if m := quotedTitleRe.FindStringSubmatch(utterance); m != nil {
		if m[1] != "" {
			c.title = m[1]
		} else {
			c.title = m[2]
		}
	} else if m := namedTitleRe.FindStringSubmatch(utterance); m != nil {
		c.title = strings.TrimSpace(m[1])
	}

	if m := actorRe.FindStringSubmatch(utterance); m != nil {
		c.actor = strings.TrimSpace(m[1])
	}

	c.genre = matchGenre(lower)
	c.rating = matchRating(utterance, lower)

	return c
}

func matchGenre(lower string) string {
	for _, g := range genreKeywords {
		for _, syn := range g.synonyms {
			if strings.Contains(lower, syn) {
				return g.name
			}
		}
	}
	return ""
}

func matchRating(utterance, lower string) *float64 {
	for _, re := range []*regexp.Regexp{ratingNumRe, atLeastRe} {
		if m := re.FindStringSubmatch(utterance); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	if topRatedRe.MatchString(lower) {
		v := topRatedThreshold
		return &v
	}
	return nil
}
