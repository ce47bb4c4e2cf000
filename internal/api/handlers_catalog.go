package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rumblereviews/rumble/internal/api/respond"
	"github.com/rumblereviews/rumble/internal/services"
	"github.com/rumblereviews/rumble/internal/suggest"
)

// CatalogHandler exposes autocomplete suggestions and raw catalog records.
type CatalogHandler struct {
	engine       *suggest.Engine
	resolver     services.Resolver
	suggestLimit int
}

func NewCatalogHandler(engine *suggest.Engine, resolver services.Resolver, suggestLimit int) *CatalogHandler {
	return &CatalogHandler{engine: engine, resolver: resolver, suggestLimit: suggestLimit}
}

// Suggest GET /api/suggest?q=partial&limit=N
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := h.suggestLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	suggestions, err := h.engine.Suggest(r.Context(), q.Get("q"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions, "count": len(suggestions)})
}

// GetRecord GET /api/catalog/{canonicalId}
func (h *CatalogHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.resolver.Fetch(r.Context(), mux.Vars(r)["canonicalId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}
