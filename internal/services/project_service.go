package services

import (
	"context"
	"errors"
	"fmt"

	"jkauppila.dev/internal/models"
)

// ErrProjectNotFound is returned when no project has the requested slug
var ErrProjectNotFound = errors.New("project not found")

// ProjectSource yields the current project list. *Orchestrator implements it.
type ProjectSource interface {
	Projects(ctx context.Context) ([]models.Project, error)
}

// ProjectService handles project-related operations
type ProjectService struct {
	source ProjectSource
}

// NewProjectService creates a new ProjectService
func NewProjectService(source ProjectSource) *ProjectService {
	return &ProjectService{source: source}
}

// GetAll returns all projects
func (s *ProjectService) GetAll(ctx context.Context) ([]models.Project, error) {
	return s.source.Projects(ctx)
}

// GetByCategory returns the projects in one category
func (s *ProjectService) GetByCategory(ctx context.Context, category models.Category) ([]models.Project, error) {
	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Sections returns projects grouped by category in display order
func (s *ProjectService) Sections(ctx context.Context) ([]models.Section, error) {
	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return models.GroupByCategory(projects), nil
}

// GetBySlug returns a specific project by slug
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	projects, err := s.source.Projects(ctx)
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].Slug == slug {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
}
