package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumblereviews/rumble/internal/model"
)

type fakeResolver struct {
	results []model.Candidate
	err     error
	queries []string
}

func (f *fakeResolver) Search(_ context.Context, query string) ([]model.Candidate, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestSuggest_BlankInputPromptsWithoutUpstreamCall(t *testing.T) {
	r := &fakeResolver{}
	e := New(r)

	for _, input := range []string{"", "   ", "\t"} {
		got, err := e.Suggest(context.Background(), input, 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, SentinelPromptID, got[0].CanonicalID)
	}
	assert.Empty(t, r.queries, "blank input must not reach the catalog")
}

func TestSuggest_LabelsAndTruncation(t *testing.T) {
	r := &fakeResolver{results: []model.Candidate{
		{CanonicalID: "tt1", Title: "Alien", Year: "1979"},
		{CanonicalID: "tt2", Title: "Aliens", Year: "1986"},
		{CanonicalID: "tt3", Title: "Alien 3", Year: "1992"},
		{CanonicalID: "tt4", Title: "Alien Resurrection", Year: "1997"},
		{CanonicalID: "tt5", Title: "Alien vs. Predator", Year: "2004"},
		{CanonicalID: "tt6", Title: "Aliens in the Attic", Year: "2009"},
	}}
	e := New(r)

	got, err := e.Suggest(context.Background(), "Alien", 5)
	require.NoError(t, err)
	require.Len(t, got, 5, "results beyond the limit are cut")
	assert.Equal(t, "Alien - (1979)", got[0].Label)
	assert.Equal(t, "tt1", got[0].CanonicalID)
	assert.Equal(t, []string{"alien"}, r.queries, "queries are lowercased before the upstream call")
}

func TestSuggest_MissYieldsNoResultsSentinel(t *testing.T) {
	e := New(&fakeResolver{err: model.ErrNotFound})

	got, err := e.Suggest(context.Background(), "zzzz", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SentinelNoResultsID, got[0].CanonicalID)
}

func TestSuggest_EmptyResultYieldsNoResultsSentinel(t *testing.T) {
	e := New(&fakeResolver{results: []model.Candidate{}})

	got, err := e.Suggest(context.Background(), "zzzz", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SentinelNoResultsID, got[0].CanonicalID)
}

func TestSuggest_OutagePropagates(t *testing.T) {
	e := New(&fakeResolver{err: model.ErrCatalogUnavailable})

	_, err := e.Suggest(context.Background(), "matrix", 5)
	assert.ErrorIs(t, err, model.ErrCatalogUnavailable, "an outage is never disguised as no-results")
}

func TestSuggest_RejectsNonPositiveLimit(t *testing.T) {
	e := New(&fakeResolver{})

	_, err := e.Suggest(context.Background(), "matrix", 0)
	assert.Error(t, err)
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(SentinelPromptID))
	assert.True(t, IsSentinel(SentinelNoResultsID))
	assert.False(t, IsSentinel("tt0133093"))
}
