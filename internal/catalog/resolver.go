package catalog

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/storage"
)

// Resolver enumerates the documentation tree. Strict mode drops files whose
// names lack the YYYY-MM-DD_ prefix; lenient mode (the default) keeps them
// with an unset date.
type Resolver struct {
	store  storage.Provider
	strict bool
	logger *slog.Logger
	cache  *Cache
}

// NewResolver creates a resolver over the given provider.
func NewResolver(store storage.Provider, strict bool, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, strict: strict, logger: logger, cache: NewCache()}
}

// Invalidate drops all memoized results. Called by the watcher on changes.
func (r *Resolver) Invalidate() {
	r.cache.Invalidate()
}

// Categories returns every top-level category in directory order.
// Non-directory entries under the root are ignored.
func (r *Resolver) Categories() []Category {
	if v, ok := r.cache.get("categories"); ok {
		return v.([]Category)
	}
	dirs, err := r.store.ListDirs("")
	if err != nil {
		r.logger.Warn("catalog: list categories failed", slog.String("error", err.Error()))
		return nil
	}
	out := make([]Category, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, newCategory(d))
	}
	r.cache.put("categories", out)
	return out
}

// ResolveCategory matches a raw category name (URL segment or on-disk name)
// against the real catalog. It tries every candidate transform and accepts
// the first category that matches, case- and separator-insensitively.
func (r *Resolver) ResolveCategory(raw string) (Category, bool) {
	if raw == "" {
		return Category{}, false
	}
	candidates := slug.CategoryCandidates(raw)
	for _, cat := range r.Categories() {
		for _, cand := range candidates {
			if cat.Name == cand {
				return cat, true
			}
		}
		if normalizeName(cat.Name) == normalizeName(raw) {
			return cat, true
		}
	}
	return Category{}, false
}

// ResolveSubcategory matches a raw subcategory name against the directories
// under the given (already resolved) category.
func (r *Resolver) ResolveSubcategory(category Category, raw string) (string, bool) {
	for _, sub := range r.Subcategories(category.Name) {
		if sub == raw || normalizeName(sub) == normalizeName(raw) {
			return sub, true
		}
	}
	return "", false
}

// Subcategories returns the subcategory directory names for a category, in
// the same order Documents iterates them. A missing category yields an
// empty list.
func (r *Resolver) Subcategories(category string) []string {
	cat, ok := r.ResolveCategory(category)
	if !ok {
		return nil
	}
	key := "subcategories/" + cat.Name
	if v, ok := r.cache.get(key); ok {
		return v.([]string)
	}
	dirs, err := r.store.ListDirs(cat.Name)
	if err != nil {
		r.logger.Warn("catalog: list subcategories failed",
			slog.String("category", cat.Name),
			slog.String("error", err.Error()))
		return nil
	}
	r.cache.put(key, dirs)
	return dirs
}

// Documents walks every subcategory of a category and returns one record
// per Markdown file. With includeContent false only file headers are read,
// keeping the listing cost proportional to file count, not corpus size.
// Ordering is directory-enumeration order across subcategories; callers
// sort by date or title downstream.
func (r *Resolver) Documents(category string, includeContent bool) []Document {
	cat, ok := r.ResolveCategory(category)
	if !ok {
		return nil
	}
	key := fmt.Sprintf("documents/%s/%t", cat.Name, includeContent)
	if v, ok := r.cache.get(key); ok {
		return v.([]Document)
	}

	var out []Document
	for _, sub := range r.Subcategories(cat.Name) {
		dir := path.Join(cat.Name, sub)
		files, err := r.store.ListFiles(dir)
		if err != nil {
			r.logger.Warn("catalog: list documents failed",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			continue
		}
		for _, file := range files {
			doc, ok := r.buildDocument(cat, sub, file, includeContent)
			if !ok {
				continue
			}
			out = append(out, doc)
		}
	}
	r.cache.put(key, out)
	return out
}

// DocumentFromFile builds a metadata-only Document for a root-relative file
// path of the form Category/Subcategory/name.md. Used by index sync and the
// watcher, which see paths rather than catalog walks.
func (r *Resolver) DocumentFromFile(relPath string, data []byte) (Document, bool) {
	parts := strings.Split(path.Clean(relPath), "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ".md") {
		return Document{}, false
	}
	cat := newCategory(parts[0])
	stem := strings.TrimSuffix(parts[2], ".md")
	date := dateFromName(stem)
	if r.strict && date == "" {
		return Document{}, false
	}
	h := parseHeader(data, stem)
	if h.Date != "" {
		date = h.Date
	}
	return Document{
		Slug:        stem,
		Title:       h.Title,
		Date:        date,
		Category:    cat.Name,
		Subcategory: parts[1],
		Path:        relPath,
	}, true
}

func (r *Resolver) buildDocument(cat Category, sub, file string, includeContent bool) (Document, bool) {
	stem := strings.TrimSuffix(file, ".md")
	date := dateFromName(stem)
	if r.strict && date == "" {
		r.logger.Debug("catalog: dropped undated file in strict mode",
			slog.String("file", file))
		return Document{}, false
	}

	rel := path.Join(cat.Name, sub, file)
	var head []byte
	var content string
	if includeContent {
		data, err := r.store.Read(rel)
		if err != nil {
			r.logger.Warn("catalog: read failed",
				slog.String("path", rel),
				slog.String("error", err.Error()))
			return Document{}, false
		}
		head = data
		content = string(data)
	} else {
		var err error
		head, err = r.store.ReadHeader(rel)
		if err != nil {
			r.logger.Warn("catalog: read header failed",
				slog.String("path", rel),
				slog.String("error", err.Error()))
			return Document{}, false
		}
	}

	h := parseHeader(head, stem)
	if h.Date != "" {
		date = h.Date
	}
	return Document{
		Slug:        stem,
		Title:       h.Title,
		Date:        date,
		Category:    cat.Name,
		Subcategory: sub,
		Path:        rel,
		Content:     content,
	}, true
}
