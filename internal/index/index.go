package index

// CatalogIndex defines the interface for document-metadata indexing.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type CatalogIndex interface {
	UpsertDocument(d DocumentRow) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	ListByCategory(category string) ([]DocumentRow, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies CatalogIndex at compile time.
var _ CatalogIndex = (*DB)(nil)
