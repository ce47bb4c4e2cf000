// Package catalog resolves free-text queries and canonical ids against an
// external OMDB-compatible catalog API. All calls are read-only; nothing is
// cached or mutated locally.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rumblereviews/rumble/internal/model"
)

// Client is the catalog resolver. The upstream reports domain-level misses
// with Response:"False" in a 200 body; those become model.ErrNotFound.
// Transport failures, non-2xx statuses and malformed payloads become
// model.ErrCatalogUnavailable so callers can tell the two apart.
type Client struct {
	client *resty.Client
	apiKey string
}

// New creates a catalog client for the given base URL and API key.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{client: c, apiKey: apiKey}
}

// Payload structs mirror the upstream JSON. They exist only at this boundary;
// nothing outside this package sees raw catalog fields.

type searchPayload struct {
	Response string             `json:"Response"`
	Error    string             `json:"Error"`
	Search   []candidatePayload `json:"Search"`
}

type candidatePayload struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Poster string `json:"Poster"`
	Type   string `json:"Type"`
}

type recordPayload struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	BoxOffice  string `json:"BoxOffice"`
	Poster     string `json:"Poster"`
	ImdbID     string `json:"imdbID"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
}

// Search returns candidate summaries for a free-text query in upstream
// relevance order. The result is unbounded; callers truncate.
func (c *Client) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("s", query).
		SetQueryParam("apikey", c.apiKey).
		Get("/")
	if err != nil {
		return nil, fmt.Errorf("%w: search request: %v", model.ErrCatalogUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: search status %d", model.ErrCatalogUnavailable, resp.StatusCode())
	}

	var p searchPayload
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", model.ErrCatalogUnavailable, err)
	}
	if p.Response != "True" {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, p.Error)
	}

	out := make([]model.Candidate, 0, len(p.Search))
	for _, cp := range p.Search {
		cand, err := cp.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, nil
}

// Fetch returns the canonical record for an id.
func (c *Client) Fetch(ctx context.Context, canonicalID string) (*model.MediaRecord, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", canonicalID).
		SetQueryParam("apikey", c.apiKey).
		Get("/")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch request: %v", model.ErrCatalogUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch status %d", model.ErrCatalogUnavailable, resp.StatusCode())
	}

	var p recordPayload
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("%w: decode fetch response: %v", model.ErrCatalogUnavailable, err)
	}
	if p.Response != "True" {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, p.Error)
	}
	return p.toModel(canonicalID)
}

func (cp candidatePayload) toModel() (model.Candidate, error) {
	if cp.ImdbID == "" || cp.Title == "" {
		return model.Candidate{}, fmt.Errorf("%w: search result missing id or title", model.ErrCatalogUnavailable)
	}
	return model.Candidate{
		CanonicalID: cp.ImdbID,
		Title:       cp.Title,
		Year:        cp.Year,
		PosterURL:   cp.Poster,
		MediaType:   cp.Type,
	}, nil
}

func (p recordPayload) toModel(requestedID string) (*model.MediaRecord, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("%w: record missing title", model.ErrCatalogUnavailable)
	}
	id := p.ImdbID
	if id == "" {
		id = requestedID
	}
	return &model.MediaRecord{
		CanonicalID:   id,
		Title:         p.Title,
		Year:          p.Year,
		Rated:         p.Rated,
		Released:      p.Released,
		Runtime:       p.Runtime,
		Genre:         p.Genre,
		Director:      p.Director,
		Writer:        p.Writer,
		Actors:        p.Actors,
		Plot:          p.Plot,
		BoxOffice:     p.BoxOffice,
		PosterURL:     p.Poster,
		CatalogRating: p.ImdbRating,
		CatalogVotes:  p.ImdbVotes,
	}, nil
}
