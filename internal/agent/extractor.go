package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/raphaelgruber/filmwise/internal/memory"
	"github.com/raphaelgruber/filmwise/internal/models"
	"github.com/raphaelgruber/filmwise/internal/tools"
)

// Confidence levels for the merge policy. Explicit statements land high
// and reinforce strongly; implicit signals from tool usage start low and
// nudge gently. A contradicted exclusive value keeps half its confidence
// so it can decay or recover instead of vanishing.
const (
	explicitInit  = 0.90
	explicitDelta = 0.30
	implicitInit  = 0.40
	implicitDelta = 0.15

	contradictionFactor = 0.5

	// correctiveStep is how far "a higher rating" moves the stored
	// threshold when no number is given.
	correctiveStep = 1.0
)

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is (\w+)`),
	regexp.MustCompile(`(?i)\bi'm (\w+)`),
	regexp.MustCompile(`(?i)\bi am (\w+)`),
	regexp.MustCompile(`(?i)call me (\w+)`),
}

// nameStopwords are words the introduction patterns capture that are
// clearly not names ("I'm looking for...").
var nameStopwords = map[string]bool{
	"looking": true, "searching": true, "trying": true, "interested": true,
	"sure": true, "not": true, "just": true, "a": true, "the": true,
	"going": true, "wondering": true,
}

var correctiveRatingRe = regexp.MustCompile(`(?i)higher rating|better rating|more highly rated`)

// Extractor derives durable preference signals from a completed turn.
// Extraction is best-effort: every failure is logged and swallowed, and
// Extract never returns an error to the caller.
type Extractor struct {
	memory *memory.Store
	logger *slog.Logger
}

// NewExtractor creates a preference extractor over the memory store.
func NewExtractor(store *memory.Store, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{memory: store, logger: logger}
}

// Extract inspects the turn's utterance, the executed tool plan, and the
// existing preference snapshot, and updates the preference store.
func (e *Extractor) Extract(ctx context.Context, userID, utterance string, plan []tools.Call, prefs []models.Preference) {
	e.extractName(ctx, userID, utterance)

	lower := strings.ToLower(utterance)
	explicit := strings.Contains(lower, "love") ||
		strings.Contains(lower, "like") ||
		strings.Contains(lower, "favorite") ||
		strings.Contains(lower, "favourite")

	c := extractCriteria(utterance)

	if c.genre != "" {
		if explicit {
			e.upsert(ctx, userID, models.PrefGenre, c.genre, prefs, explicitInit, explicitDelta)
		} else if planHasGenre(plan, c.genre) {
			e.upsert(ctx, userID, models.PrefGenre, c.genre, prefs, implicitInit, implicitDelta)
		}
	}

	if c.actor != "" {
		if explicit {
			e.upsert(ctx, userID, models.PrefActor, c.actor, prefs, explicitInit, explicitDelta)
		} else if planHasActor(plan, c.actor) {
			e.upsert(ctx, userID, models.PrefActor, c.actor, prefs, implicitInit, implicitDelta)
		}
	}

	e.extractRating(ctx, userID, utterance, lower, c, prefs)
}

// extractName updates the user record when the utterance introduces a
// name. First matching pattern wins.
func (e *Extractor) extractName(ctx context.Context, userID, utterance string) {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(utterance)
		if m == nil {
			continue
		}
		word := strings.ToLower(m[1])
		if nameStopwords[word] {
			continue
		}
		name := strings.ToUpper(word[:1]) + word[1:]
		if err := e.memory.SetUserName(ctx, userID, name); err != nil {
			e.logger.Warn("extract: set user name failed", "user_id", userID, "error", err)
		} else {
			e.logger.Info("extract: user name learned", "user_id", userID, "name", name)
		}
		return
	}
}

// extractRating applies the exclusive merge policy for rating_min: a new
// explicit threshold halves the confidence of any different stored value
// before inserting the new one high; corrective phrasing without a number
// raises the stored threshold by one step; top-rated phrasing is only an
// implicit signal.
func (e *Extractor) extractRating(ctx context.Context, userID, utterance, lower string, c criteria, prefs []models.Preference) {
	stored, hasStored := currentRatingMin(prefs)

	explicitNum := false
	for _, re := range []*regexp.Regexp{ratingNumRe, atLeastRe} {
		if re.MatchString(utterance) {
			explicitNum = true
			break
		}
	}

	switch {
	case explicitNum && c.rating != nil:
		e.replaceRatingMin(ctx, userID, *c.rating, prefs)

	case correctiveRatingRe.MatchString(lower) && hasStored:
		e.replaceRatingMin(ctx, userID, stored+correctiveStep, prefs)

	case c.rating != nil:
		// Top-rated phrasing with no explicit number.
		value := formatRating(*c.rating)
		if hasStored {
			value = formatRating(stored)
		}
		e.upsert(ctx, userID, models.PrefRatingMin, value, prefs, implicitInit, implicitDelta)
	}
}

// replaceRatingMin penalizes stored rating_min values that differ from
// the new threshold, then inserts the new value at explicit confidence.
// rating_min is exclusive, so differing stored values are contradictions.
func (e *Extractor) replaceRatingMin(ctx context.Context, userID string, threshold float64, prefs []models.Preference) {
	value := formatRating(threshold)

	for _, p := range prefs {
		if !models.ExclusiveType(p.Type) || p.Value == value {
			continue
		}
		if err := e.memory.ScaleConfidence(ctx, userID, p.Type, p.Value, contradictionFactor); err != nil {
			e.logger.Warn("extract: contradiction penalty failed",
				"user_id", userID, "value", p.Value, "error", err)
		}
	}

	e.upsert(ctx, userID, models.PrefRatingMin, value, prefs, explicitInit, explicitDelta)
}

// upsert writes one preference signal. A value not yet in the snapshot
// is inserted at init confidence; an existing one is reinforced by delta.
func (e *Extractor) upsert(ctx context.Context, userID, prefType, value string, prefs []models.Preference, init, delta float64) {
	d := delta
	if !hasPreference(prefs, prefType, value) {
		d = init
	}
	p, err := e.memory.UpsertPreference(ctx, userID, prefType, value, d)
	if err != nil {
		e.logger.Warn("extract: preference upsert failed",
			"user_id", userID, "type", prefType, "value", value, "error", err)
		return
	}
	e.logger.Info("extract: preference updated",
		"user_id", userID, "type", p.Type, "value", p.Value,
		"confidence", fmt.Sprintf("%.2f", p.Confidence))
}

func hasPreference(prefs []models.Preference, prefType, value string) bool {
	for _, p := range prefs {
		if p.Type == prefType && p.Value == value {
			return true
		}
	}
	return false
}

// currentRatingMin returns the stored rating threshold with the highest
// confidence, relying on the store's type-then-confidence ordering.
func currentRatingMin(prefs []models.Preference) (float64, bool) {
	for _, p := range prefs {
		if p.Type != models.PrefRatingMin {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func planHasGenre(plan []tools.Call, genre string) bool {
	for _, call := range plan {
		if strings.EqualFold(call.Criteria().Genre, genre) {
			return true
		}
	}
	return false
}

func planHasActor(plan []tools.Call, actor string) bool {
	for _, call := range plan {
		if strings.EqualFold(call.Criteria().Actor, actor) {
			return true
		}
	}
	return false
}
