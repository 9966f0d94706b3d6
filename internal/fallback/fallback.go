// Package fallback holds the project list served when the CMS is not
// configured or cannot be reached.
package fallback

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"jkauppila.dev/internal/models"
)

//go:embed projects.yaml
var projectsYAML []byte

type file struct {
	Projects []entry `yaml:"projects"`
}

type entry struct {
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Client      *string        `yaml:"client"`
	Scope       *string        `yaml:"scope"`
	Year        *int           `yaml:"year"`
	Category    string         `yaml:"category"`
	Description *string        `yaml:"description"`
	Images      []models.Image `yaml:"images"`
}

// Dataset is an immutable project list. Projects hands out copies.
type Dataset struct {
	projects []models.Project
}

var builtin = mustParse(projectsYAML)

// Default returns the dataset embedded in the binary
func Default() *Dataset {
	return builtin
}

// Projects returns a fresh copy of the dataset
func (d *Dataset) Projects() []models.Project {
	return models.CloneProjects(d.projects)
}

// Parse builds a dataset from YAML. It applies the same checks as CMS
// payloads: unique non-empty slugs, non-empty titles, known categories and
// images with a source.
func Parse(data []byte) (*Dataset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fallback projects: %w", err)
	}

	projects := make([]models.Project, 0, len(f.Projects))
	seen := make(map[string]struct{}, len(f.Projects))
	for i, e := range f.Projects {
		slug := strings.TrimSpace(e.Slug)
		if slug == "" {
			return nil, fmt.Errorf("fallback project %d: missing slug", i)
		}
		if _, dup := seen[slug]; dup {
			return nil, fmt.Errorf("fallback project %q: duplicate slug", slug)
		}
		seen[slug] = struct{}{}

		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("fallback project %q: missing title", slug)
		}

		category, err := models.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("fallback project %q: %w", slug, err)
		}

		images := make([]models.Image, 0, len(e.Images))
		for _, img := range e.Images {
			if strings.TrimSpace(img.Src) == "" {
				continue
			}
			images = append(images, img)
		}

		projects = append(projects, models.Project{
			Slug:        slug,
			Title:       title,
			Client:      e.Client,
			Scope:       e.Scope,
			Year:        e.Year,
			Category:    category,
			Description: models.Description{Text: e.Description},
			Images:      images,
		})
	}

	return &Dataset{projects: projects}, nil
}

func mustParse(data []byte) *Dataset {
	d, err := Parse(data)
	if err != nil {
		panic("Failed to load fallback projects: " + err.Error())
	}
	return d
}
