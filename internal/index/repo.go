package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	Path        string
	Category    string
	Subcategory string
	Slug        string
	Title       string
	Date        string
	Checksum    string
	UpdatedAt   time.Time
}

// UpsertDocument inserts or replaces a document's metadata row.
func (db *DB) UpsertDocument(d DocumentRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO documents (path, category, subcategory, slug, title, date, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			category    = excluded.category,
			subcategory = excluded.subcategory,
			slug        = excluded.slug,
			title       = excluded.title,
			date        = excluded.date,
			checksum    = excluded.checksum,
			updated_at  = excluded.updated_at
	`, d.Path, d.Category, d.Subcategory, d.Slug, d.Title, d.Date, d.Checksum, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document row. Deleting an absent path is a no-op.
func (db *DB) DeleteDocument(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a document. A path that is
// not indexed yields empty string, not an error.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// ListByCategory returns all rows for a category ordered by subcategory
// then path, matching directory-enumeration order.
func (db *DB) ListByCategory(category string) ([]DocumentRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, category, subcategory, slug, title, date, checksum, updated_at
		FROM documents WHERE category = ?
		ORDER BY subcategory, path
	`, category)
	if err != nil {
		return nil, fmt.Errorf("index: list by category: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.Path, &d.Category, &d.Subcategory, &d.Slug, &d.Title, &d.Date, &d.Checksum, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AllChecksums returns path -> checksum for every indexed document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
