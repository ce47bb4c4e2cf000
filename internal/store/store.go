package store

import (
	"context"

	"github.com/rumblereviews/rumble/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Reviews() Reviews
}

// Reviews is the durable review record access surface. Writes are atomic
// single-statement operations; a caller abandoning a call mid-flight cannot
// leave partial state behind.
type Reviews interface {
	// Upsert inserts the review or, when a row for the same
	// (community, user, canonical id) triple exists, replaces its score,
	// display name, title snapshot and timestamp. The conditional write
	// happens inside one statement so concurrent upserts for the same
	// triple serialize at the database.
	Upsert(ctx context.Context, r *model.Review) (*model.Review, error)

	// Aggregate computes mean and count over the rows matching both keys.
	// Zero matching rows yield a zero-count aggregate, not an error.
	Aggregate(ctx context.Context, communityID, canonicalID string) (*model.TitleAggregate, error)

	// TopTitles returns per-title aggregates ordered by average descending,
	// canonical id ascending as the tie-break. limit <= 0 means no bound.
	TopTitles(ctx context.Context, communityID string, limit int) ([]*model.TitleAggregate, error)

	// ListForTitle matches titlePattern case-insensitively as a substring of
	// the stored title snapshots, pins the canonical id of the earliest
	// matching row, and returns only that title's reviews in chronological
	// order. An empty result is not an error.
	ListForTitle(ctx context.Context, communityID, titlePattern string) ([]*model.Review, error)

	// SearchTitles returns distinct reviewed title snapshots matching the
	// pattern, for reviewed-title autocomplete.
	SearchTitles(ctx context.Context, communityID, pattern string, limit int) ([]string, error)
}
