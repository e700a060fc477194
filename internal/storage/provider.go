// Package storage defines the read-only documentation-tree abstraction.
package storage

import "time"

// FileMeta describes one Markdown file for index synchronization.
type FileMeta struct {
	Path     string // relative to the docs root, forward slashes
	Checksum string
	ModTime  time.Time
}

// Provider is the interface for documentation-tree reads. All paths are
// relative to the docs root. Implementations return listings in sorted
// order so downstream matching is deterministic.
type Provider interface {
	// ListDirs returns the names of subdirectories directly under dir.
	ListDirs(dir string) ([]string, error)
	// ListFiles returns the names of Markdown files directly under dir.
	ListFiles(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// ReadHeader returns only the metadata head of the file at path: its
	// first line, or the whole frontmatter block plus the following line
	// when the file opens with a frontmatter delimiter.
	ReadHeader(path string) ([]byte, error)
	// Walk returns metadata for every Markdown file under dir, recursively.
	Walk(dir string) ([]FileMeta, error)
	// Root returns the absolute docs root directory.
	Root() string
}
