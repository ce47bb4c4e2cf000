package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumblereviews/rumble/internal/model"
	"github.com/rumblereviews/rumble/internal/store"
)

// fakeReviews is a deterministic in-memory Reviews implementation for service
// tests. Store driver behavior is covered by storetest; here we only need a
// scriptable stand-in.
type fakeReviews struct {
	rows       map[string]*model.Review // key: community|user|canonical
	upsertErr  error
	topErr     error
	listResult []*model.Review
	listErr    error
	top        []*model.TitleAggregate
	searched   []string
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{rows: make(map[string]*model.Review)}
}

func (f *fakeReviews) key(community, user, canonical string) string {
	return community + "|" + user + "|" + canonical
}

func (f *fakeReviews) Upsert(_ context.Context, r *model.Review) (*model.Review, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if r.Score < 1 || r.Score > 10 {
		return nil, model.ErrInvalidScore
	}
	cp := *r
	f.rows[f.key(r.CommunityID, r.UserID, r.CanonicalID)] = &cp
	return &cp, nil
}

func (f *fakeReviews) Aggregate(_ context.Context, communityID, canonicalID string) (*model.TitleAggregate, error) {
	agg := &model.TitleAggregate{CanonicalID: canonicalID}
	var sum int
	for _, r := range f.rows {
		if r.CommunityID == communityID && r.CanonicalID == canonicalID {
			sum += r.Score
			agg.ReviewCount++
			agg.TitleSnapshot = r.TitleSnapshot
		}
	}
	if agg.ReviewCount > 0 {
		agg.AverageScore = float64(sum) / float64(agg.ReviewCount)
	}
	return agg, nil
}

func (f *fakeReviews) TopTitles(_ context.Context, _ string, _ int) ([]*model.TitleAggregate, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}
	return f.top, nil
}

func (f *fakeReviews) ListForTitle(_ context.Context, _, _ string) ([]*model.Review, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeReviews) SearchTitles(_ context.Context, _, _ string, _ int) ([]string, error) {
	return f.searched, nil
}

type fakeStore struct{ reviews *fakeReviews }

func (f *fakeStore) Reviews() store.Reviews { return f.reviews }

// fakeCatalog serves canned records per canonical id and an error for
// everything else.
type fakeCatalog struct {
	records map[string]*model.MediaRecord
	err     error
	fetches int
}

func (f *fakeCatalog) Fetch(_ context.Context, canonicalID string) (*model.MediaRecord, error) {
	f.fetches++
	if rec, ok := f.records[canonicalID]; ok {
		return rec, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, model.ErrNotFound
}

func newService(reviews *fakeReviews, cat *fakeCatalog) *ReviewService {
	return NewReviewService(&fakeStore{reviews: reviews}, cat)
}

func TestSubmitReview_Valid(t *testing.T) {
	reviews := newFakeReviews()
	svc := newService(reviews, &fakeCatalog{})

	before := time.Now().UTC()
	saved, err := svc.SubmitReview(context.Background(), SubmitReviewRequest{
		CommunityID:     "guild-1",
		UserID:          "user-1",
		UserDisplayName: "alice",
		CanonicalID:     "tt0133093",
		TitleSnapshot:   "The Matrix",
		Score:           9,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 9, saved.Score)
	assert.False(t, saved.RecordedAt.Before(before), "RecordedAt must be stamped at submission time")
	assert.Len(t, reviews.rows, 1)
}

func TestSubmitReview_InvalidScore(t *testing.T) {
	reviews := newFakeReviews()
	svc := newService(reviews, &fakeCatalog{})

	for _, score := range []int{0, -3, 11} {
		_, err := svc.SubmitReview(context.Background(), SubmitReviewRequest{
			CommunityID:   "guild-1",
			UserID:        "user-1",
			CanonicalID:   "tt0133093",
			TitleSnapshot: "The Matrix",
			Score:         score,
		})
		assert.ErrorIs(t, err, model.ErrInvalidScore, "score %d", score)
	}
	assert.Empty(t, reviews.rows, "rejected submissions must not persist")
}

func TestSubmitReview_RejectsSentinelIDs(t *testing.T) {
	reviews := newFakeReviews()
	svc := newService(reviews, &fakeCatalog{})

	for _, id := range []string{"rumble:prompt", "rumble:no-results"} {
		_, err := svc.SubmitReview(context.Background(), SubmitReviewRequest{
			CommunityID:   "guild-1",
			UserID:        "user-1",
			CanonicalID:   id,
			TitleSnapshot: "placeholder",
			Score:         5,
		})
		require.Error(t, err, "sentinel id %s must be rejected", id)
	}
	assert.Empty(t, reviews.rows)
}

func TestSubmitReview_MissingIdentifiers(t *testing.T) {
	svc := newService(newFakeReviews(), &fakeCatalog{})

	cases := []SubmitReviewRequest{
		{UserID: "u", CanonicalID: "tt1", TitleSnapshot: "x", Score: 5},
		{CommunityID: "g", CanonicalID: "tt1", TitleSnapshot: "x", Score: 5},
		{CommunityID: "g", UserID: "u", TitleSnapshot: "x", Score: 5},
		{CommunityID: "g", UserID: "u", CanonicalID: "tt1", Score: 5},
	}
	for i, req := range cases {
		_, err := svc.SubmitReview(context.Background(), req)
		assert.Error(t, err, "case %d", i)
	}
}

func TestTitleList_MetadataFailureKeepsRow(t *testing.T) {
	reviews := newFakeReviews()
	reviews.top = []*model.TitleAggregate{
		{CanonicalID: "tt0000001", TitleSnapshot: "Known", AverageScore: 8, ReviewCount: 2},
		{CanonicalID: "tt0000002", TitleSnapshot: "Gone", AverageScore: 7, ReviewCount: 1},
	}
	cat := &fakeCatalog{
		records: map[string]*model.MediaRecord{
			"tt0000001": {CanonicalID: "tt0000001", Title: "Known", Year: "1999"},
		},
		err: model.ErrCatalogUnavailable,
	}
	svc := newService(reviews, cat)

	listings, err := svc.TitleList(context.Background(), "guild-1")
	require.NoError(t, err)
	require.Len(t, listings, 2, "a failed metadata fetch must not drop the listing row")

	assert.NotNil(t, listings[0].Media)
	assert.Equal(t, "Known", listings[0].Media.Title)
	assert.Nil(t, listings[1].Media, "unresolvable title renders without metadata")
	assert.Equal(t, "Gone", listings[1].Aggregate.TitleSnapshot)
}

func TestTitleList_StoreFailurePropagates(t *testing.T) {
	reviews := newFakeReviews()
	reviews.topErr = model.ErrStoreUnavailable
	svc := newService(reviews, &fakeCatalog{})

	_, err := svc.TitleList(context.Background(), "guild-1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestTitleDetail_HappyPath(t *testing.T) {
	reviews := newFakeReviews()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews.listResult = []*model.Review{
		{CommunityID: "guild-1", UserID: "u1", CanonicalID: "tt0133093", TitleSnapshot: "The Matrix", Score: 7, RecordedAt: at},
		{CommunityID: "guild-1", UserID: "u2", CanonicalID: "tt0133093", TitleSnapshot: "The Matrix", Score: 9, RecordedAt: at.Add(time.Minute)},
	}
	cat := &fakeCatalog{records: map[string]*model.MediaRecord{
		"tt0133093": {CanonicalID: "tt0133093", Title: "The Matrix", Year: "1999"},
	}}
	svc := newService(reviews, cat)

	detail, err := svc.TitleDetail(context.Background(), "guild-1", "matrix")
	require.NoError(t, err)
	require.NotNil(t, detail.Media)
	assert.Equal(t, "The Matrix", detail.Media.Title)
	assert.Len(t, detail.Reviews, 2)
}

func TestTitleDetail_NoMatchingReviews(t *testing.T) {
	svc := newService(newFakeReviews(), &fakeCatalog{})

	_, err := svc.TitleDetail(context.Background(), "guild-1", "nothing here")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTitleDetail_CatalogDownStillServesReviews(t *testing.T) {
	reviews := newFakeReviews()
	reviews.listResult = []*model.Review{
		{CommunityID: "guild-1", UserID: "u1", CanonicalID: "tt0133093", TitleSnapshot: "The Matrix", Score: 7, RecordedAt: time.Now().UTC()},
	}
	cat := &fakeCatalog{err: model.ErrCatalogUnavailable}
	svc := newService(reviews, cat)

	detail, err := svc.TitleDetail(context.Background(), "guild-1", "matrix")
	require.NoError(t, err)
	assert.Nil(t, detail.Media)
	assert.Len(t, detail.Reviews, 1)
}

func TestSearchReviewedTitles(t *testing.T) {
	reviews := newFakeReviews()
	reviews.searched = []string{"Alien", "Aliens"}
	svc := newService(reviews, &fakeCatalog{})

	titles, err := svc.SearchReviewedTitles(context.Background(), "guild-1", "alien", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien", "Aliens"}, titles)
}
