package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jkauppila.dev/internal/middleware"
	"jkauppila.dev/internal/services"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(projectService *services.ProjectService, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	projectHandler := NewProjectHandler(projectService, logger)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{slug}", projectHandler.GetProject)
		r.Get("/sections", projectHandler.ListSections)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// Gallery images referenced by the fallback dataset
	fileServer := http.FileServer(http.Dir("./public"))
	r.Handle("/images/*", fileServer)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFetchError maps service errors to responses. A failed CMS fetch
// under the explicit policy becomes a 503 carrying the failure detail.
func respondFetchError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fetchErr *services.FetchError
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, "Project not found")
	case errors.As(err, &fetchErr):
		logger.Error("unable to load projects", "endpoint", fetchErr.Endpoint, "error", fetchErr.Err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":  "Unable to load projects",
			"detail": fetchErr.Err.Error(),
		})
	default:
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
