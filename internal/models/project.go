package models

import (
	"fmt"

	"jkauppila.dev/internal/richtext"
)

// Category groups projects for display
type Category string

const (
	CategorySoftware    Category = "software"
	CategoryFabrication Category = "fabrication"
	CategoryArt         Category = "art"
)

// Categories lists every category in display order
var Categories = []Category{CategorySoftware, CategoryFabrication, CategoryArt}

var sectionTitles = map[Category]string{
	CategorySoftware:    "Software Projects",
	CategoryFabrication: "Fabrication Projects",
	CategoryArt:         "Art Projects",
}

// ParseCategory validates a category value. Unknown values are rejected.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := sectionTitles[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Title returns the section heading for the category
func (c Category) Title() string {
	return sectionTitles[c]
}

// Image is one picture in a project's gallery
type Image struct {
	Src     string  `json:"src" yaml:"src"`
	Alt     *string `json:"alt,omitempty" yaml:"alt"`
	Caption *string `json:"caption,omitempty" yaml:"caption"`
}

// Description holds a project's body text. Document wins over Text when both are set.
type Description struct {
	Document *richtext.Document
	Text     *string
}

// HasContent reports whether either representation is populated
func (d Description) HasContent() bool {
	return !d.Document.IsEmpty() || (d.Text != nil && *d.Text != "")
}

// Project represents a portfolio project
type Project struct {
	Slug        string
	Title       string
	Client      *string
	Scope       *string
	Year        *int
	Category    Category
	Description Description
	Images      []Image
}

// Clone returns a deep copy. Writing through any pointer or slice of the
// result leaves p unchanged.
func (p Project) Clone() Project {
	out := p
	out.Client = clonePtr(p.Client)
	out.Scope = clonePtr(p.Scope)
	out.Year = clonePtr(p.Year)
	out.Description = Description{
		Document: p.Description.Document.Clone(),
		Text:     clonePtr(p.Description.Text),
	}
	if p.Images != nil {
		out.Images = make([]Image, len(p.Images))
		for i, img := range p.Images {
			out.Images[i] = Image{Src: img.Src, Alt: clonePtr(img.Alt), Caption: clonePtr(img.Caption)}
		}
	}
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CloneProjects copies a project list
func CloneProjects(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i := range projects {
		out[i] = projects[i].Clone()
	}
	return out
}

// Section is the set of projects in one category
type Section struct {
	Category Category
	Title    string
	Projects []Project
}

// GroupByCategory partitions projects into sections in display order,
// skipping empty categories. Input order is kept within a section.
func GroupByCategory(projects []Project) []Section {
	var sections []Section
	for _, c := range Categories {
		var matched []Project
		for _, p := range projects {
			if p.Category == c {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sections = append(sections, Section{Category: c, Title: c.Title(), Projects: matched})
	}
	return sections
}
