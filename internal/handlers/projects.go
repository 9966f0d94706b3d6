package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jkauppila.dev/internal/models"
	"jkauppila.dev/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, logger: logger}
}

// ListProjects handles GET /api/projects, optionally filtered by ?category=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var (
		projects []models.Project
		err      error
	)

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, perr := models.ParseCategory(raw)
		if perr != nil {
			respondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		projects, err = h.projectService.GetByCategory(r.Context(), category)
	} else {
		projects, err = h.projectService.GetAll(r.Context())
	}
	if err != nil {
		respondFetchError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, newSummaries(projects))
}

// ListSections handles GET /api/sections
func (h *ProjectHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.projectService.Sections(r.Context())
	if err != nil {
		respondFetchError(w, h.logger, err)
		return
	}

	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		views = append(views, sectionView{
			Category: string(s.Category),
			Title:    s.Title,
			Projects: newSummaries(s.Projects),
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// GetProject handles GET /api/projects/{slug}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.projectService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondFetchError(w, h.logger, err)
		return
	}

	detail, err := newDetail(*project)
	if err != nil {
		h.logger.Error("rendering description", "slug", slug, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, detail)
}
