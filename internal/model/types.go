package model

import "time"

// MediaRecord is the canonical catalog record for a title. It is fetched
// per request from the external catalog and never persisted.
type MediaRecord struct {
	CanonicalID   string `json:"canonicalId"`
	Title         string `json:"title"`
	Year          string `json:"year"`
	Rated         string `json:"rated,omitempty"`
	Released      string `json:"released,omitempty"`
	Runtime       string `json:"runtime,omitempty"`
	Genre         string `json:"genre,omitempty"`
	Director      string `json:"director,omitempty"`
	Writer        string `json:"writer,omitempty"`
	Actors        string `json:"actors,omitempty"`
	Plot          string `json:"plot,omitempty"`
	BoxOffice     string `json:"boxOffice,omitempty"`
	PosterURL     string `json:"posterUrl,omitempty"`
	CatalogRating string `json:"catalogRating,omitempty"`
	CatalogVotes  string `json:"catalogVotes,omitempty"`
}

// Candidate is a lightweight catalog search result.
type Candidate struct {
	CanonicalID string `json:"canonicalId"`
	Title       string `json:"title"`
	Year        string `json:"year"`
	PosterURL   string `json:"posterUrl,omitempty"`
	MediaType   string `json:"mediaType,omitempty"`
}

// Review is the durable per-community, per-user rating of a title.
// Exactly one row exists per (CommunityID, UserID, CanonicalID); a later
// submission replaces score and timestamp in place.
type Review struct {
	CommunityID     string    `json:"communityId"`
	UserID          string    `json:"userId"`
	UserDisplayName string    `json:"userDisplayName"`
	CanonicalID     string    `json:"canonicalId"`
	TitleSnapshot   string    `json:"titleSnapshot"`
	Score           int       `json:"score"`
	RecordedAt      time.Time `json:"recordedAt"`
}

// TitleAggregate is derived from review rows at read time; it is never stored,
// so it cannot drift from the underlying scores.
type TitleAggregate struct {
	CanonicalID   string  `json:"canonicalId"`
	TitleSnapshot string  `json:"titleSnapshot"`
	AverageScore  float64 `json:"averageScore"`
	ReviewCount   int     `json:"reviewCount"`
}

// Suggestion is one autocomplete entry: a display label and the canonical id
// to submit if the user picks it.
type Suggestion struct {
	Label       string `json:"label"`
	CanonicalID string `json:"canonicalId"`
}

// TitleListing pairs an aggregate with its fresh catalog record. Media is nil
// when the catalog lookup failed; the aggregate row is kept regardless.
type TitleListing struct {
	Aggregate *TitleAggregate `json:"aggregate"`
	Media     *MediaRecord    `json:"media,omitempty"`
}

// TitleDetail is the full read-side view of one reviewed title.
type TitleDetail struct {
	Media   *MediaRecord `json:"media,omitempty"`
	Reviews []*Review    `json:"reviews"`
}
