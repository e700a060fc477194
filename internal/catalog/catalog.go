// Package catalog discovers categories, subcategories, and documents from
// the documentation root. Resolution never fails outward: I/O problems are
// logged and surface as empty collections, because an empty or missing tree
// is the normal steady state of a fresh install.
package catalog

import (
	"strings"

	"github.com/starford/ansuz/internal/slug"
)

// Category is a top-level document grouping, one directory under the root.
type Category struct {
	// Name is the on-disk directory name (Capitalized_With_Underscores).
	Name string `json:"name"`
	// Display is the human-readable form (underscores become spaces).
	Display string `json:"display"`
	// Slug is the URL form (lowercase-with-hyphens).
	Slug string `json:"slug"`
}

// Document describes one source file. Content is populated only when the
// caller asked for full content; metadata listings leave it empty so a
// category page never reads whole document bodies.
type Document struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"` // ISO YYYY-MM-DD, empty when unknown
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Path        string `json:"-"` // backing file, relative to the docs root
	Content     string `json:"content,omitempty"`
}

// newCategory derives display name and URL slug from an on-disk name.
func newCategory(name string) Category {
	display := strings.ReplaceAll(name, "_", " ")
	return Category{
		Name:    name,
		Display: display,
		Slug:    slug.Slugify(display),
	}
}

// normalizeName folds an on-disk or URL name for insensitive comparison:
// lowercase with underscores and spaces collapsed to hyphens.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ReplaceAll(s, " ", "-")
}
