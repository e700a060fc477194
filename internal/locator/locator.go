// Package locator resolves a single document by (category, subcategory,
// slug). Requested slugs drift from on-disk names through URL encoding,
// casing, accents, and historical renames, so resolution falls back from
// exact matching to prefix and substring heuristics.
package locator

import (
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/storage"
)

// Locator finds documents on disk via the catalog resolver.
type Locator struct {
	store    storage.Provider
	resolver *catalog.Resolver
	logger   *slog.Logger
}

// New creates a Locator.
func New(store storage.Provider, resolver *catalog.Resolver, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{store: store, resolver: resolver, logger: logger}
}

// Locate resolves one document. Matching order, first success wins:
//
//  1. exact file name <slug>.md
//  2. case-insensitive prefix match
//  3. bidirectional substring match on folded names (diacritics stripped,
//     case-folded), covering both abbreviated and over-long slugs
//
// Provider listings are sorted, so a multi-candidate match resolves
// deterministically to the lexicographically first file; the remaining
// candidates are logged. Any miss or unreadable directory yields
// apperr.ErrNotFound.
func (l *Locator) Locate(category, subcategory, rawSlug string) (*catalog.Document, error) {
	decoded := rawSlug
	if d, err := url.PathUnescape(rawSlug); err == nil {
		decoded = d
	}

	cat, ok := l.resolver.ResolveCategory(category)
	if !ok {
		return nil, fmt.Errorf("locate %s/%s/%s: %w", category, subcategory, rawSlug, apperr.ErrNotFound)
	}
	sub, ok := l.resolver.ResolveSubcategory(cat, subcategory)
	if !ok {
		return nil, fmt.Errorf("locate %s/%s/%s: %w", cat.Name, subcategory, rawSlug, apperr.ErrNotFound)
	}

	dir := path.Join(cat.Name, sub)
	files, err := l.store.ListFiles(dir)
	if err != nil {
		l.logger.Warn("locator: list failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("locate %s: %w", dir, apperr.ErrNotFound)
	}

	file, ok := l.match(files, decoded)
	if !ok {
		return nil, fmt.Errorf("locate %s/%s: %w", dir, decoded, apperr.ErrNotFound)
	}

	return l.load(cat, sub, file)
}

// match applies the exact/prefix/substring cascade against file names.
func (l *Locator) match(files []string, decoded string) (string, bool) {
	exact := decoded + ".md"
	for _, f := range files {
		if f == exact {
			return f, true
		}
	}

	lowerSlug := strings.ToLower(decoded)
	if found, ok := l.pick(files, decoded, func(stem string) bool {
		return strings.HasPrefix(strings.ToLower(stem), lowerSlug)
	}); ok {
		return found, true
	}

	foldedSlug := slug.Fold(decoded)
	return l.pick(files, decoded, func(stem string) bool {
		folded := slug.Fold(stem)
		return strings.Contains(folded, foldedSlug) || strings.Contains(foldedSlug, folded)
	})
}

// pick returns the first file whose stem satisfies fn, logging when the
// match was ambiguous.
func (l *Locator) pick(files []string, decoded string, fn func(stem string) bool) (string, bool) {
	var matched []string
	for _, f := range files {
		if fn(strings.TrimSuffix(f, ".md")) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return "", false
	}
	if len(matched) > 1 {
		l.logger.Warn("locator: ambiguous slug, using first candidate",
			slog.String("slug", decoded),
			slog.String("chosen", matched[0]),
			slog.Int("candidates", len(matched)))
	}
	return matched[0], true
}

// load reads the matched file and assembles the full document: the leading
// level-1 heading is promoted to Title and removed from the body, and the
// date comes from the file-name prefix (frontmatter may override both).
func (l *Locator) load(cat catalog.Category, sub, file string) (*catalog.Document, error) {
	rel := path.Join(cat.Name, sub, file)
	data, err := l.store.Read(rel)
	if err != nil {
		l.logger.Warn("locator: read failed",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("locate %s: %w", rel, apperr.ErrNotFound)
	}

	doc, ok := l.resolver.DocumentFromFile(rel, data)
	if !ok {
		return nil, fmt.Errorf("locate %s: %w", rel, apperr.ErrNotFound)
	}
	doc.Content = catalog.Body(data)
	return &doc, nil
}
