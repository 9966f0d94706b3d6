package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"jkauppila.dev/internal/imagecdn"
	"jkauppila.dev/internal/models"
	"jkauppila.dev/internal/richtext"
)

type imageView struct {
	Src       string  `json:"src"`
	MobileSrc string  `json:"mobile_src"`
	Alt       string  `json:"alt"`
	Caption   *string `json:"caption,omitempty"`
}

type projectSummary struct {
	Slug     string      `json:"slug"`
	Title    string      `json:"title"`
	Client   *string     `json:"client,omitempty"`
	Scope    *string     `json:"scope,omitempty"`
	Year     *int        `json:"year,omitempty"`
	Category string      `json:"category"`
	Byline   string      `json:"byline,omitempty"`
	Excerpt  string      `json:"excerpt,omitempty"`
	URL      string      `json:"url"`
	Images   []imageView `json:"images"`
}

type projectDetail struct {
	projectSummary
	DescriptionHTML string `json:"description_html,omitempty"`
}

type sectionView struct {
	Category string           `json:"category"`
	Title    string           `json:"title"`
	Projects []projectSummary `json:"projects"`
}

func newSummaries(projects []models.Project) []projectSummary {
	out := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, newSummary(p))
	}
	return out
}

func newSummary(p models.Project) projectSummary {
	images := make([]imageView, 0, len(p.Images))
	for _, img := range p.Images {
		alt := ""
		if img.Alt != nil {
			alt = *img.Alt
		}
		images = append(images, imageView{
			Src:       imagecdn.Desktop(img.Src),
			MobileSrc: imagecdn.Mobile(img.Src),
			Alt:       alt,
			Caption:   img.Caption,
		})
	}

	return projectSummary{
		Slug:     p.Slug,
		Title:    p.Title,
		Client:   p.Client,
		Scope:    p.Scope,
		Year:     p.Year,
		Category: string(p.Category),
		Byline:   byline(p),
		Excerpt:  excerpt(p.Description),
		URL:      "/project/" + p.Slug,
		Images:   images,
	}
}

func newDetail(p models.Project) (projectDetail, error) {
	html, err := descriptionHTML(p.Description)
	if err != nil {
		return projectDetail{}, err
	}
	return projectDetail{projectSummary: newSummary(p), DescriptionHTML: html}, nil
}

// byline joins client, scope and year with middle dots, skipping blanks
func byline(p models.Project) string {
	var parts []string
	if p.Client != nil && *p.Client != "" {
		parts = append(parts, *p.Client)
	}
	if p.Scope != nil && *p.Scope != "" {
		parts = append(parts, *p.Scope)
	}
	if p.Year != nil {
		parts = append(parts, strconv.Itoa(*p.Year))
	}
	return strings.Join(parts, " · ")
}

func excerpt(d models.Description) string {
	if !d.Document.IsEmpty() {
		return richtext.PlainText(d.Document)
	}
	if d.Text != nil {
		return strings.TrimSpace(*d.Text)
	}
	return ""
}

func descriptionHTML(d models.Description) (string, error) {
	if !d.Document.IsEmpty() {
		return richtext.ToHTML(d.Document)
	}
	if d.Text != nil && *d.Text != "" {
		return richtext.RenderPlain(*d.Text)
	}
	return "", nil
}

// MarshalSnapshot encodes projects in the same shape GET /api/projects/{slug}
// returns, as an indented JSON array.
func MarshalSnapshot(projects []models.Project) ([]byte, error) {
	details := make([]projectDetail, 0, len(projects))
	for _, p := range projects {
		d, err := newDetail(p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Slug, err)
		}
		details = append(details, d)
	}
	return json.MarshalIndent(details, "", "  ")
}
