package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rumblereviews/rumble/internal/model"
	"github.com/rumblereviews/rumble/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the reviews table and its secondary access paths when
// they do not exist. The composite primary key is the upsert conflict target.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
            community_id      TEXT NOT NULL,
            user_id           TEXT NOT NULL,
            user_display_name TEXT NOT NULL,
            canonical_id      TEXT NOT NULL,
            title_snapshot    TEXT NOT NULL,
            score             INT  NOT NULL CHECK (score BETWEEN 1 AND 10),
            recorded_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (community_id, user_id, canonical_id)
        )`,
		`CREATE INDEX IF NOT EXISTS reviews_community_canonical_idx
            ON reviews (community_id, canonical_id)`,
		`CREATE INDEX IF NOT EXISTS reviews_community_snapshot_idx
            ON reviews (community_id, lower(title_snapshot))`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Reviews() store.Reviews { return &reviews{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type reviews struct{ db *sql.DB }

func (r *reviews) Upsert(ctx context.Context, in *model.Review) (*model.Review, error) {
	if in.Score < 1 || in.Score > 10 {
		return nil, model.ErrInvalidScore
	}
	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	var stored time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO reviews (community_id, user_id, user_display_name, canonical_id, title_snapshot, score, recorded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (community_id, user_id, canonical_id) DO UPDATE
        SET user_display_name = EXCLUDED.user_display_name,
            title_snapshot    = EXCLUDED.title_snapshot,
            score             = EXCLUDED.score,
            recorded_at       = EXCLUDED.recorded_at
        RETURNING recorded_at
    `, in.CommunityID, in.UserID, in.UserDisplayName, in.CanonicalID, in.TitleSnapshot, in.Score, recordedAt)
	if err := row.Scan(&stored); err != nil {
		return nil, fmt.Errorf("%w: upsert review: %v", model.ErrStoreUnavailable, err)
	}
	out := *in
	out.RecordedAt = stored
	return &out, nil
}

func (r *reviews) Aggregate(ctx context.Context, communityID, canonicalID string) (*model.TitleAggregate, error) {
	var avg sql.NullFloat64
	var count int
	var title sql.NullString
	row := r.db.QueryRowContext(ctx, `
        SELECT AVG(score)::float8, COUNT(*), MAX(title_snapshot)
        FROM reviews WHERE community_id=$1 AND canonical_id=$2
    `, communityID, canonicalID)
	if err := row.Scan(&avg, &count, &title); err != nil {
		return nil, fmt.Errorf("%w: aggregate: %v", model.ErrStoreUnavailable, err)
	}
	return &model.TitleAggregate{
		CanonicalID:   canonicalID,
		TitleSnapshot: title.String,
		AverageScore:  avg.Float64,
		ReviewCount:   count,
	}, nil
}

func (r *reviews) TopTitles(ctx context.Context, communityID string, limit int) ([]*model.TitleAggregate, error) {
	query := `
        SELECT canonical_id, MAX(title_snapshot), AVG(score)::float8, COUNT(*)
        FROM reviews WHERE community_id=$1
        GROUP BY canonical_id
        ORDER BY AVG(score) DESC, canonical_id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("%w: top titles: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.TitleAggregate
	for rows.Next() {
		var a model.TitleAggregate
		if err := rows.Scan(&a.CanonicalID, &a.TitleSnapshot, &a.AverageScore, &a.ReviewCount); err != nil {
			return nil, fmt.Errorf("%w: top titles scan: %v", model.ErrStoreUnavailable, err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: top titles rows: %v", model.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (r *reviews) ListForTitle(ctx context.Context, communityID, titlePattern string) ([]*model.Review, error) {
	// The inner select pins one canonical id so rows from distinct titles
	// that happen to share a matching snapshot never mix in one result.
	rows, err := r.db.QueryContext(ctx, `
        SELECT community_id, user_id, user_display_name, canonical_id, title_snapshot, score, recorded_at
        FROM reviews
        WHERE community_id=$1 AND canonical_id = (
            SELECT canonical_id FROM reviews
            WHERE community_id=$1 AND title_snapshot ILIKE '%' || $2 || '%'
            ORDER BY recorded_at ASC, canonical_id ASC
            LIMIT 1
        )
        ORDER BY recorded_at ASC, user_id ASC
    `, communityID, titlePattern)
	if err != nil {
		return nil, fmt.Errorf("%w: list for title: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.CommunityID, &rv.UserID, &rv.UserDisplayName, &rv.CanonicalID, &rv.TitleSnapshot, &rv.Score, &rv.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: list for title scan: %v", model.ErrStoreUnavailable, err)
		}
		out = append(out, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list for title rows: %v", model.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (r *reviews) SearchTitles(ctx context.Context, communityID, pattern string, limit int) ([]string, error) {
	query := `
        SELECT DISTINCT title_snapshot FROM reviews
        WHERE community_id=$1 AND title_snapshot ILIKE '%' || $2 || '%'
        ORDER BY title_snapshot ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, query, communityID, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: search titles: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: search titles scan: %v", model.ErrStoreUnavailable, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search titles rows: %v", model.ErrStoreUnavailable, err)
	}
	return out, nil
}
