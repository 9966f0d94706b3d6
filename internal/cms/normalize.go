package cms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"jkauppila.dev/internal/models"
	"jkauppila.dev/internal/richtext"
)

// RawProject is a project as the CMS returns it. Every field may be null.
type RawProject struct {
	Slug        *string         `json:"slug"`
	Title       *string         `json:"title"`
	Client      *string         `json:"client"`
	Scope       *string         `json:"scope"`
	Year        *int            `json:"year"`
	Category    *string         `json:"category"`
	Description *RawDescription `json:"description"`
	Images      []RawImage      `json:"images"`
}

// RawDescription is the CMS rich-text field
type RawDescription struct {
	Raw        json.RawMessage `json:"raw"`
	Text       *string         `json:"text"`
	References []RawAsset      `json:"references"`
}

// RawAsset is an asset referenced from a rich-text document
type RawAsset struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

// RawImage is one gallery entry
type RawImage struct {
	URL      *string `json:"url"`
	FileName *string `json:"fileName"`
	Alt      *string `json:"alt"`
}

type projectsPayload struct {
	Projects *[]RawProject `json:"projects"`
}

// Normalize decodes a ProjectsQuery data payload into display models. A
// payload without a projects field fails with ErrMissingProjects; an empty
// list is valid. Slugs must be unique. logger receives warnings about
// content that was dropped; it may be nil.
func Normalize(payload json.RawMessage, logger *slog.Logger) ([]models.Project, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &DataError{Err: ErrMissingProjects}
	}

	var decoded projectsPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &DataError{Err: fmt.Errorf("decode projects: %w", err)}
	}
	if decoded.Projects == nil {
		return nil, &DataError{Err: ErrMissingProjects}
	}

	raws := *decoded.Projects
	projects := make([]models.Project, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		p, err := NormalizeProject(raw, logger)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, &DataError{Slug: p.Slug, Err: errors.New("duplicate slug")}
		}
		seen[p.Slug] = struct{}{}
		projects = append(projects, p)
	}
	return projects, nil
}

// NormalizeProject converts one raw record. Null optional fields become
// absent; an explicit empty string is kept. A description document that
// cannot be decoded is dropped in favour of the plain-text form and
// reported to logger.
func NormalizeProject(raw RawProject, logger *slog.Logger) (models.Project, error) {
	slug := strings.TrimSpace(deref(raw.Slug))
	if slug == "" {
		return models.Project{}, &DataError{Err: errors.New("project without slug")}
	}

	title := strings.TrimSpace(deref(raw.Title))
	if title == "" {
		return models.Project{}, &DataError{Slug: slug, Err: errors.New("missing title")}
	}

	category, err := models.ParseCategory(deref(raw.Category))
	if err != nil {
		return models.Project{}, &DataError{Slug: slug, Err: err}
	}

	description, err := normalizeDescription(raw.Description)
	if err != nil {
		if logger != nil {
			logger.Warn("dropping unreadable rich text description", "slug", slug, "error", err)
		}
		description = models.Description{Text: raw.Description.Text}
	}

	return models.Project{
		Slug:        slug,
		Title:       title,
		Client:      raw.Client,
		Scope:       raw.Scope,
		Year:        raw.Year,
		Category:    category,
		Description: description,
		Images:      normalizeImages(raw.Images),
	}, nil
}

func normalizeDescription(raw *RawDescription) (models.Description, error) {
	if raw == nil {
		return models.Description{}, nil
	}

	refs := make([]richtext.Asset, 0, len(raw.References))
	for _, r := range raw.References {
		refs = append(refs, richtext.Asset{ID: r.ID, URL: r.URL, MimeType: r.MimeType, FileName: r.FileName})
	}

	doc, err := richtext.Parse(raw.Raw, refs...)
	if err != nil {
		return models.Description{}, fmt.Errorf("description: %w", err)
	}

	// The structured document wins; text is only used when it is absent.
	if !doc.IsEmpty() {
		return models.Description{Document: doc}, nil
	}
	return models.Description{Text: raw.Text}, nil
}

func normalizeImages(raws []RawImage) []models.Image {
	images := make([]models.Image, 0, len(raws))
	for _, raw := range raws {
		src := strings.TrimSpace(deref(raw.URL))
		if src == "" {
			continue
		}
		img := models.Image{Src: src, Alt: raw.Alt}
		if img.Alt == nil && raw.FileName != nil && *raw.FileName != "" {
			img.Alt = raw.FileName
		}
		images = append(images, img)
	}
	return images
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
