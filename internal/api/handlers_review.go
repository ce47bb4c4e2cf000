package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rumblereviews/rumble/internal/api/respond"
	"github.com/rumblereviews/rumble/internal/model"
	"github.com/rumblereviews/rumble/internal/services"
)

// ReviewHandler is a thin HTTP transport over ReviewService.
type ReviewHandler struct {
	svc *services.ReviewService
}

func NewReviewHandler(svc *services.ReviewService) *ReviewHandler { return &ReviewHandler{svc: svc} }

// writeDomainError maps service errors onto HTTP statuses. Store and catalog
// failures are always wrapped in their sentinel, so anything unmatched is a
// validation failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidScore):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrCatalogUnavailable), errors.Is(err, model.ErrStoreUnavailable):
		respond.WriteServiceUnavailable(w, err.Error())
	default:
		respond.WriteBadRequest(w, err.Error())
	}
}

// SubmitReview POST /api/communities/{communityId}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	req.CommunityID = mux.Vars(r)["communityId"]

	saved, err := h.svc.SubmitReview(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, saved)
}

// ListTitles GET /api/communities/{communityId}/titles
func (h *ReviewHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["communityId"]
	listings, err := h.svc.TitleList(r.Context(), communityID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"titles": listings, "count": len(listings)})
}

// TopTitles GET /api/communities/{communityId}/titles/top?limit=N
func (h *ReviewHandler) TopTitles(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["communityId"]
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	top, err := h.svc.TopTitles(r.Context(), communityID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"titles": top, "count": len(top)})
}

// TitleDetail GET /api/communities/{communityId}/title-detail?title=pattern
func (h *ReviewHandler) TitleDetail(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["communityId"]
	pattern := r.URL.Query().Get("title")

	detail, err := h.svc.TitleDetail(r.Context(), communityID, pattern)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, detail)
}

// ReviewedTitles GET /api/communities/{communityId}/reviewed-titles?q=pattern&limit=N
func (h *ReviewHandler) ReviewedTitles(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["communityId"]
	q := r.URL.Query()

	limit := 25
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	titles, err := h.svc.SearchReviewedTitles(r.Context(), communityID, q.Get("q"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"titles": titles, "count": len(titles)})
}
