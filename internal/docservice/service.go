// Package docservice coordinates the catalog, locator, outline, and
// renderer into the read API the transports expose.
package docservice

import (
	"context"
	"log/slog"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/locator"
	"github.com/starford/ansuz/internal/outline"
	"github.com/starford/ansuz/internal/renderer"
)

// DocumentDetail is the full representation of a single document.
type DocumentDetail struct {
	Category    string            `json:"category"`
	Subcategory string            `json:"subcategory"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Date        string            `json:"date,omitempty"`
	Content     string            `json:"content"`
	HTML        string            `json:"html"`
	Headings    []outline.Heading `json:"headings"`
	Checksum    string            `json:"checksum"`
}

// Service answers catalog and document queries. Listings are served from
// the metadata index when it has rows for the category and fall back to a
// filesystem walk otherwise, so a cold or broken index degrades to correct
// but slower behavior.
type Service struct {
	resolver *catalog.Resolver
	locator  *locator.Locator
	extract  *outline.Extractor
	render   *renderer.Renderer
	idx      index.CatalogIndex
	logger   *slog.Logger
}

// NewService creates a document service. idx may be nil, in which case all
// listings walk the filesystem.
func NewService(resolver *catalog.Resolver, loc *locator.Locator, extract *outline.Extractor, render *renderer.Renderer, idx index.CatalogIndex, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: resolver,
		locator:  loc,
		extract:  extract,
		render:   render,
		idx:      idx,
		logger:   logger,
	}
}

// ListCategories returns every top-level category.
func (s *Service) ListCategories(_ context.Context) []catalog.Category {
	return s.resolver.Categories()
}

// ListSubcategories returns the subcategory names for a category. An
// unknown category yields an empty list.
func (s *Service) ListSubcategories(_ context.Context, category string) []string {
	return s.resolver.Subcategories(category)
}

// ListDocuments returns the documents of a category. Metadata-only
// listings are read through the index; content listings always walk the
// filesystem since the index stores no bodies.
func (s *Service) ListDocuments(_ context.Context, category string, includeContent bool) []catalog.Document {
	if !includeContent && s.idx != nil {
		if docs, ok := s.listFromIndex(category); ok {
			return docs
		}
	}
	return s.resolver.Documents(category, includeContent)
}

func (s *Service) listFromIndex(category string) ([]catalog.Document, bool) {
	cat, ok := s.resolver.ResolveCategory(category)
	if !ok {
		return nil, false
	}
	rows, err := s.idx.ListByCategory(cat.Name)
	if err != nil {
		s.logger.Warn("docservice: index listing failed, falling back",
			slog.String("category", cat.Name),
			slog.String("error", err.Error()))
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	docs := make([]catalog.Document, len(rows))
	for i, r := range rows {
		docs[i] = catalog.Document{
			Slug:        r.Slug,
			Title:       r.Title,
			Date:        r.Date,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Path:        r.Path,
		}
	}
	return docs, true
}

// GetDocument locates one document and assembles its full detail: raw
// content, rendered HTML, and the heading outline. The outline and the
// rendered anchors share identifier assignment, so every outline entry
// resolves in the HTML.
func (s *Service) GetDocument(_ context.Context, category, subcategory, slug string) (*DocumentDetail, error) {
	doc, err := s.locator.Locate(category, subcategory, slug)
	if err != nil {
		return nil, err
	}

	html, err := s.render.Render(doc.Content)
	if err != nil {
		return nil, err
	}

	return &DocumentDetail{
		Category:    doc.Category,
		Subcategory: doc.Subcategory,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Date:        doc.Date,
		Content:     doc.Content,
		HTML:        html,
		Headings:    s.extract.Extract(doc.Content),
		Checksum:    checksum.Sum([]byte(doc.Content)),
	}, nil
}
