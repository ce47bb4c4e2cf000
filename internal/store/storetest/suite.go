// Package storetest exercises a compliance suite against a store.Store
// implementation. Implementations should provide a clean, isolated store and
// return it from makeStore.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rumblereviews/rumble/internal/model"
	"github.com/rumblereviews/rumble/internal/store"
)

// Run exercises the review store contract: idempotent upserts, read-time
// aggregation, deterministic ordering, community isolation and concurrent
// upsert safety.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("UpsertReplacesInPlace", func(t *testing.T) { testUpsertReplaces(t, makeStore(t)) })
	t.Run("InvalidScoreRejected", func(t *testing.T) { testInvalidScore(t, makeStore(t)) })
	t.Run("AggregateMeanAndCount", func(t *testing.T) { testAggregate(t, makeStore(t)) })
	t.Run("TopTitlesOrdering", func(t *testing.T) { testTopTitles(t, makeStore(t)) })
	t.Run("ListForTitlePinsCanonicalID", func(t *testing.T) { testListForTitle(t, makeStore(t)) })
	t.Run("SearchTitlesDistinct", func(t *testing.T) { testSearchTitles(t, makeStore(t)) })
	t.Run("CommunityIsolation", func(t *testing.T) { testCommunityIsolation(t, makeStore(t)) })
	t.Run("ConcurrentUpsertsSingleRow", func(t *testing.T) { testConcurrentUpserts(t, makeStore(t)) })
}

func newCommunity() string { return "c-" + uuid.New().String() }

func review(community, user, canonical, title string, score int, at time.Time) *model.Review {
	return &model.Review{
		CommunityID:     community,
		UserID:          user,
		UserDisplayName: "user " + user,
		CanonicalID:     canonical,
		TitleSnapshot:   title,
		Score:           score,
		RecordedAt:      at,
	}
}

func testUpsertReplaces(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, score := range []int{3, 7, 10} {
		if _, err := s.Reviews().Upsert(ctx, review(community, "alice", "tt0111161", "The Shawshank Redemption", score, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Upsert #%d: %v", i, err)
		}
	}

	agg, err := s.Reviews().Aggregate(ctx, community, "tt0111161")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.ReviewCount != 1 {
		t.Fatalf("expected one row after repeated upserts, got count=%d", agg.ReviewCount)
	}
	if agg.AverageScore != 10 {
		t.Fatalf("expected last write to win, got avg=%v", agg.AverageScore)
	}
}

func testInvalidScore(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()

	for _, score := range []int{0, -1, 11, 100} {
		_, err := s.Reviews().Upsert(ctx, review(community, "alice", "tt0111161", "The Shawshank Redemption", score, time.Now().UTC()))
		if !errors.Is(err, model.ErrInvalidScore) {
			t.Fatalf("score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}

	agg, err := s.Reviews().Aggregate(ctx, community, "tt0111161")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.ReviewCount != 0 {
		t.Fatalf("rejected upserts must not create rows, got count=%d", agg.ReviewCount)
	}
}

func testAggregate(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.Reviews().Upsert(ctx, review(community, "alice", "tt0133093", "The Matrix", 7, at)); err != nil {
		t.Fatalf("Upsert alice: %v", err)
	}
	if _, err := s.Reviews().Upsert(ctx, review(community, "bob", "tt0133093", "The Matrix", 9, at.Add(time.Minute))); err != nil {
		t.Fatalf("Upsert bob: %v", err)
	}

	agg, err := s.Reviews().Aggregate(ctx, community, "tt0133093")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.ReviewCount != 2 || agg.AverageScore != 8.0 {
		t.Fatalf("expected avg 8.0 count 2, got avg=%v count=%d", agg.AverageScore, agg.ReviewCount)
	}

	// Empty is a valid result, not an error.
	empty, err := s.Reviews().Aggregate(ctx, community, "tt9999999")
	if err != nil {
		t.Fatalf("Aggregate empty: %v", err)
	}
	if empty.ReviewCount != 0 {
		t.Fatalf("expected zero-count aggregate, got count=%d", empty.ReviewCount)
	}
}

func testTopTitles(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// A and B tie on average; C trails. The tie must break on canonical id.
	seed := []*model.Review{
		review(community, "alice", "tt0000002", "Title B", 8, at),
		review(community, "alice", "tt0000001", "Title A", 8, at),
		review(community, "alice", "tt0000003", "Title C", 7, at),
		review(community, "bob", "tt0000003", "Title C", 7, at),
	}
	for _, rv := range seed {
		if _, err := s.Reviews().Upsert(ctx, rv); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	want := []string{"tt0000001", "tt0000002", "tt0000003"}
	for attempt := 0; attempt < 3; attempt++ {
		top, err := s.Reviews().TopTitles(ctx, community, 3)
		if err != nil {
			t.Fatalf("TopTitles: %v", err)
		}
		if len(top) != 3 {
			t.Fatalf("expected 3 aggregates, got %d", len(top))
		}
		for i, w := range want {
			if top[i].CanonicalID != w {
				t.Fatalf("attempt %d: position %d: want %s got %s", attempt, i, w, top[i].CanonicalID)
			}
		}
	}

	limited, err := s.Reviews().TopTitles(ctx, community, 1)
	if err != nil {
		t.Fatalf("TopTitles limit: %v", err)
	}
	if len(limited) != 1 || limited[0].CanonicalID != "tt0000001" {
		t.Fatalf("limit not honored: %+v", limited)
	}
}

func testListForTitle(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two distinct canonical ids share the matched title string; only the
	// earliest row's id may appear in the result.
	seed := []*model.Review{
		review(community, "alice", "tt0000010", "Dune", 8, at),
		review(community, "bob", "tt0000010", "Dune", 6, at.Add(2*time.Minute)),
		review(community, "carol", "tt0000020", "Dune", 9, at.Add(time.Minute)),
	}
	for _, rv := range seed {
		if _, err := s.Reviews().Upsert(ctx, rv); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := s.Reviews().ListForTitle(ctx, community, "dune")
	if err != nil {
		t.Fatalf("ListForTitle: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for the pinned id, got %d", len(got))
	}
	for _, rv := range got {
		if rv.CanonicalID != "tt0000010" {
			t.Fatalf("mixed canonical ids in result: %s", rv.CanonicalID)
		}
	}
	if !got[0].RecordedAt.Before(got[1].RecordedAt) {
		t.Fatalf("rows not chronological: %v then %v", got[0].RecordedAt, got[1].RecordedAt)
	}

	none, err := s.Reviews().ListForTitle(ctx, community, "no such title")
	if err != nil {
		t.Fatalf("ListForTitle miss: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rows, got %d", len(none))
	}
}

func testSearchTitles(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := []*model.Review{
		review(community, "alice", "tt0000030", "Alien", 8, at),
		review(community, "bob", "tt0000030", "Alien", 7, at),
		review(community, "alice", "tt0000031", "Aliens", 9, at),
		review(community, "alice", "tt0000032", "Arrival", 9, at),
	}
	for _, rv := range seed {
		if _, err := s.Reviews().Upsert(ctx, rv); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	titles, err := s.Reviews().SearchTitles(ctx, community, "alien", 5)
	if err != nil {
		t.Fatalf("SearchTitles: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Alien" || titles[1] != "Aliens" {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func testCommunityIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := newCommunity()
	second := newCommunity()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.Reviews().Upsert(ctx, review(first, "alice", "tt0133093", "The Matrix", 7, at)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Reviews().Upsert(ctx, review(first, "bob", "tt0133093", "The Matrix", 9, at)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Reviews().Upsert(ctx, review(second, "carol", "tt0133093", "The Matrix", 5, at)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	agg, err := s.Reviews().Aggregate(ctx, first, "tt0133093")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.ReviewCount != 2 || agg.AverageScore != 8.0 {
		t.Fatalf("first community polluted: avg=%v count=%d", agg.AverageScore, agg.ReviewCount)
	}
}

func testConcurrentUpserts(t *testing.T, s store.Store) {
	ctx := context.Background()
	community := newCommunity()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := s.Reviews().Upsert(ctx, review(community, "alice", "tt0111161", "The Shawshank Redemption", score, time.Now().UTC()))
			errs <- err
		}(1 + i%10)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Upsert: %v", err)
		}
	}

	agg, err := s.Reviews().Aggregate(ctx, community, "tt0111161")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.ReviewCount != 1 {
		t.Fatalf("concurrent upserts left %d rows, want 1", agg.ReviewCount)
	}
	if agg.AverageScore < 1 || agg.AverageScore > 10 || agg.AverageScore != float64(int(agg.AverageScore)) {
		t.Fatalf("stored score is not one of the submitted values: %v", agg.AverageScore)
	}
}
