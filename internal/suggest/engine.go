// Package suggest turns partial user input into a bounded list of
// search-as-you-type suggestions.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rumblereviews/rumble/internal/model"
)

// Sentinel canonical ids. The "rumble:" prefix cannot collide with catalog
// ids and the rate-submission validator rejects it, so a sentinel entry can
// never be stored as a review target.
const (
	SentinelPromptID    = "rumble:prompt"
	SentinelNoResultsID = "rumble:no-results"
)

// Resolver is the slice of the catalog client the engine needs.
type Resolver interface {
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

// Engine maps partial input to suggestions via the catalog resolver.
type Engine struct {
	resolver Resolver
}

func New(resolver Resolver) *Engine { return &Engine{resolver: resolver} }

// Suggest returns at most limit suggestions for the partial query.
// Blank input yields a single prompt sentinel without an upstream call.
// An upstream miss yields a single no-results sentinel. An unavailable
// upstream propagates as an error; it is never presented as "no results".
func (e *Engine) Suggest(ctx context.Context, partial string, limit int) ([]model.Suggestion, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("suggest limit must be positive, got %d", limit)
	}

	if strings.TrimSpace(partial) == "" {
		return []model.Suggestion{{
			Label:       "Start typing in the name of your movie/show!",
			CanonicalID: SentinelPromptID,
		}}, nil
	}

	cands, err := e.resolver.Search(ctx, strings.ToLower(partial))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return noResults(), nil
		}
		return nil, err
	}
	if len(cands) == 0 {
		return noResults(), nil
	}

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]model.Suggestion, 0, len(cands))
	for _, c := range cands {
		out = append(out, model.Suggestion{
			Label:       fmt.Sprintf("%s - (%s)", c.Title, c.Year),
			CanonicalID: c.CanonicalID,
		})
	}
	return out, nil
}

// IsSentinel reports whether id is one of the engine's sentinel ids.
func IsSentinel(id string) bool {
	return strings.HasPrefix(id, "rumble:")
}

func noResults() []model.Suggestion {
	return []model.Suggestion{{
		Label:       "No results found, write a movie/show that exists in the catalog",
		CanonicalID: SentinelNoResultsID,
	}}
}
