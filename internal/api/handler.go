// internal/api/handler.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"agent-catalog/internal/catalog"
)

// Handler is the container for API dependencies.
type Handler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(service *catalog.Service, logger *slog.Logger) http.Handler {
	h := &Handler{
		catalog: service,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/projects", h.listProjects)
		r.Get("/projects/facets", h.getFacets)
		r.Get("/homepage", h.getHomepage)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listProjects returns the filtered, ranked catalog.
// GET /v1/projects?language=&engine=&starsMin=&starsMax=&activity=
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	filters := catalog.ParseFilters(r.URL.Query())

	projects, err := h.catalog.ListProjects(r.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list projects", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, projects)
}

// getFacets returns the filter facets over the full catalog.
// GET /v1/projects/facets
func (h *Handler) getFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.catalog.Facets(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute facets", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, facets)
}

// getHomepage returns projects, facets, and the echoed filters in one payload.
// GET /v1/homepage?language=&engine=&starsMin=&starsMax=&activity=
func (h *Handler) getHomepage(w http.ResponseWriter, r *http.Request) {
	filters := catalog.ParseFilters(r.URL.Query())

	data, err := h.catalog.HomepageData(r.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to build homepage payload", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, data)
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}
