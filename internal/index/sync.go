package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the documentation tree and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
//
// Files outside the Category/Subcategory/name.md layout are skipped.
func Sync(db *DB, store storage.Provider, resolver *catalog.Resolver, logger *slog.Logger) error {
	metas, err := store.Walk("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexDocument(db, resolver, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexDocument builds a metadata row from file data and upserts it.
// Paths the resolver rejects (wrong depth, undated in strict mode) are
// skipped silently; they are invisible to the catalog too.
func indexDocument(db *DB, resolver *catalog.Resolver, path string, data []byte) error {
	doc, ok := resolver.DocumentFromFile(path, data)
	if !ok {
		return nil
	}
	return db.UpsertDocument(DocumentRow{
		Path:        path,
		Category:    doc.Category,
		Subcategory: doc.Subcategory,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Date:        doc.Date,
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now().UTC(),
	})
}
