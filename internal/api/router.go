package api

import (
	"github.com/gorilla/mux"

	"github.com/rumblereviews/rumble/internal/api/recovery"
	"github.com/rumblereviews/rumble/internal/services"
	"github.com/rumblereviews/rumble/internal/suggest"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(reviewSvc *services.ReviewService, engine *suggest.Engine, resolver services.Resolver, suggestLimit int) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler()
	reviewHandler := NewReviewHandler(reviewSvc)
	catalogHandler := NewCatalogHandler(engine, resolver, suggestLimit)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Review endpoints
	router.HandleFunc("/api/communities/{communityId}/reviews", reviewHandler.SubmitReview).Methods("POST")
	router.HandleFunc("/api/communities/{communityId}/titles", reviewHandler.ListTitles).Methods("GET")
	router.HandleFunc("/api/communities/{communityId}/titles/top", reviewHandler.TopTitles).Methods("GET")
	router.HandleFunc("/api/communities/{communityId}/title-detail", reviewHandler.TitleDetail).Methods("GET")
	router.HandleFunc("/api/communities/{communityId}/reviewed-titles", reviewHandler.ReviewedTitles).Methods("GET")

	// Catalog endpoints
	router.HandleFunc("/api/suggest", catalogHandler.Suggest).Methods("GET")
	router.HandleFunc("/api/catalog/{canonicalId}", catalogHandler.GetRecord).Methods("GET")

	return router
}
