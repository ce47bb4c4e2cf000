package services

import (
	"context"
	"errors"
	"time"

	"github.com/rumblereviews/rumble/internal/api/validate"
	"github.com/rumblereviews/rumble/internal/model"
	"github.com/rumblereviews/rumble/internal/store"
)

// Resolver is the slice of the catalog client the review service needs for
// display metadata.
type Resolver interface {
	Fetch(ctx context.Context, canonicalID string) (*model.MediaRecord, error)
}

// ReviewService orchestrates rating writes and the read-side views that join
// stored aggregates with fresh catalog metadata.
type ReviewService struct {
	store store.Store
	cat   Resolver
}

func NewReviewService(s store.Store, cat Resolver) *ReviewService {
	return &ReviewService{store: s, cat: cat}
}

// SubmitReviewRequest carries one rate-submission event.
type SubmitReviewRequest struct {
	CommunityID     string `json:"communityId"`
	UserID          string `json:"userId"`
	UserDisplayName string `json:"userDisplayName"`
	CanonicalID     string `json:"canonicalId"`
	TitleSnapshot   string `json:"titleSnapshot"`
	Score           int    `json:"score"`
}

// SubmitReview validates the submission and upserts it. Re-rating the same
// title replaces the earlier score in place; nothing is persisted on a
// validation failure.
func (s *ReviewService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*model.Review, error) {
	if err := validate.CommunityID(req.CommunityID); err != nil {
		return nil, err
	}
	if err := validate.UserID(req.UserID); err != nil {
		return nil, err
	}
	if err := validate.CanonicalID(req.CanonicalID); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("titleSnapshot", req.TitleSnapshot); err != nil {
		return nil, err
	}
	if err := validate.Score(req.Score); err != nil {
		return nil, err
	}

	return s.store.Reviews().Upsert(ctx, &model.Review{
		CommunityID:     req.CommunityID,
		UserID:          req.UserID,
		UserDisplayName: req.UserDisplayName,
		CanonicalID:     req.CanonicalID,
		TitleSnapshot:   req.TitleSnapshot,
		Score:           req.Score,
		RecordedAt:      time.Now().UTC(),
	})
}

// TopTitles returns ranked aggregates without catalog metadata.
func (s *ReviewService) TopTitles(ctx context.Context, communityID string, limit int) ([]*model.TitleAggregate, error) {
	if err := validate.CommunityID(communityID); err != nil {
		return nil, err
	}
	return s.store.Reviews().TopTitles(ctx, communityID, limit)
}

// Aggregate returns the mean/count for one title. A zero-count aggregate is a
// valid answer for a title nobody has reviewed yet.
func (s *ReviewService) Aggregate(ctx context.Context, communityID, canonicalID string) (*model.TitleAggregate, error) {
	if err := validate.CommunityID(communityID); err != nil {
		return nil, err
	}
	if err := validate.CanonicalID(canonicalID); err != nil {
		return nil, err
	}
	return s.store.Reviews().Aggregate(ctx, communityID, canonicalID)
}

// TitleList returns every reviewed title's aggregate joined with a fresh
// catalog record. The store read drains fully before the external fetches
// start, so no pooled connection is held across slow upstream I/O. A failed
// fetch leaves Media nil; the aggregate row is never dropped.
func (s *ReviewService) TitleList(ctx context.Context, communityID string) ([]model.TitleListing, error) {
	aggs, err := s.TopTitles(ctx, communityID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]model.TitleListing, 0, len(aggs))
	for _, agg := range aggs {
		listing := model.TitleListing{Aggregate: agg}
		if rec, err := s.cat.Fetch(ctx, agg.CanonicalID); err == nil {
			listing.Media = rec
		} else if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out = append(out, listing)
	}
	return out, nil
}

// TitleDetail resolves which title a pattern means from the stored reviews
// (stored rows are the source of truth, not a fresh search), then fetches
// display metadata. Media is nil when the catalog cannot serve the record.
func (s *ReviewService) TitleDetail(ctx context.Context, communityID, titlePattern string) (*model.TitleDetail, error) {
	if err := validate.CommunityID(communityID); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("title", titlePattern); err != nil {
		return nil, err
	}

	reviews, err := s.store.Reviews().ListForTitle(ctx, communityID, titlePattern)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, model.ErrNotFound
	}

	detail := &model.TitleDetail{Reviews: reviews}
	rec, err := s.cat.Fetch(ctx, reviews[0].CanonicalID)
	switch {
	case err == nil:
		detail.Media = rec
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrCatalogUnavailable):
		// Stale or unreachable catalog record: keep the reviews, mark
		// the metadata missing.
	default:
		return nil, err
	}
	return detail, nil
}

// SearchReviewedTitles powers autocomplete over titles this community has
// already reviewed.
func (s *ReviewService) SearchReviewedTitles(ctx context.Context, communityID, pattern string, limit int) ([]string, error) {
	if err := validate.CommunityID(communityID); err != nil {
		return nil, err
	}
	return s.store.Reviews().SearchTitles(ctx, communityID, pattern, limit)
}
