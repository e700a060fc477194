package docservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/locator"
	"github.com/starford/ansuz/internal/outline"
	"github.com/starford/ansuz/internal/renderer"
	"github.com/starford/ansuz/internal/storage"
)

// fakeIndex implements index.CatalogIndex in memory.
type fakeIndex struct {
	rows map[string][]index.DocumentRow
	err  error
}

func (f *fakeIndex) UpsertDocument(index.DocumentRow) error        { return nil }
func (f *fakeIndex) DeleteDocument(string) error                  { return nil }
func (f *fakeIndex) GetChecksum(string) (string, error)           { return "", nil }
func (f *fakeIndex) AllChecksums() (map[string]string, error)     { return nil, nil }
func (f *fakeIndex) Close() error                                 { return nil }
func (f *fakeIndex) ListByCategory(c string) ([]index.DocumentRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[c], nil
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testService(t *testing.T, idx index.CatalogIndex) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	resolver := catalog.NewResolver(store, false, logger)
	svc := NewService(
		resolver,
		locator.New(store, resolver, logger),
		outline.NewExtractor(nil),
		renderer.New(),
		idx,
		logger,
	)
	return svc, dir
}

func TestGetDocument(t *testing.T) {
	svc, dir := testService(t, nil)
	writeDoc(t, dir, "Tech_Learning/Programming/2024-03-02_Closures.md",
		"# Understanding Closures\n\n## Basics\n\ntext\n\n## Basics\n\nmore\n")

	d, err := svc.GetDocument(context.Background(), "tech-learning", "programming", "closures")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if d.Title != "Understanding Closures" {
		t.Errorf("title = %q", d.Title)
	}
	if d.Date != "2024-03-02" {
		t.Errorf("date = %q", d.Date)
	}
	if len(d.Headings) != 2 {
		t.Fatalf("headings = %+v", d.Headings)
	}
	if d.Headings[0].ID != "basics" || d.Headings[1].ID != "basics-1" {
		t.Errorf("heading ids = %q, %q", d.Headings[0].ID, d.Headings[1].ID)
	}
	for _, h := range d.Headings {
		if !strings.Contains(d.HTML, `id="`+h.ID+`"`) {
			t.Errorf("outline id %q missing from HTML", h.ID)
		}
	}
	if d.Checksum == "" {
		t.Error("checksum empty")
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	svc, _ := testService(t, nil)
	_, err := svc.GetDocument(context.Background(), "nope", "nope", "nope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListDocuments_ReadsThroughIndex(t *testing.T) {
	idx := &fakeIndex{rows: map[string][]index.DocumentRow{
		"Notes": {
			{Path: "Notes/Misc/a.md", Category: "Notes", Subcategory: "Misc", Slug: "a", Title: "From Index"},
		},
	}}
	svc, dir := testService(t, idx)
	// The filesystem has a different document; the index answer must win.
	writeDoc(t, dir, "Notes/Misc/b.md", "# From Disk\n")

	docs := svc.ListDocuments(context.Background(), "Notes", false)
	if len(docs) != 1 || docs[0].Title != "From Index" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestListDocuments_FallsBackOnEmptyIndex(t *testing.T) {
	svc, dir := testService(t, &fakeIndex{rows: map[string][]index.DocumentRow{}})
	writeDoc(t, dir, "Notes/Misc/a.md", "# From Disk\n")

	docs := svc.ListDocuments(context.Background(), "Notes", false)
	if len(docs) != 1 || docs[0].Title != "From Disk" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestListDocuments_FallsBackOnIndexError(t *testing.T) {
	svc, dir := testService(t, &fakeIndex{err: errors.New("db locked")})
	writeDoc(t, dir, "Notes/Misc/a.md", "# From Disk\n")

	docs := svc.ListDocuments(context.Background(), "Notes", false)
	if len(docs) != 1 || docs[0].Title != "From Disk" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestListDocuments_ContentBypassesIndex(t *testing.T) {
	idx := &fakeIndex{rows: map[string][]index.DocumentRow{
		"Notes": {{Path: "Notes/Misc/a.md", Category: "Notes", Subcategory: "Misc", Slug: "a"}},
	}}
	svc, dir := testService(t, idx)
	writeDoc(t, dir, "Notes/Misc/a.md", "# A\nfull body\n")

	docs := svc.ListDocuments(context.Background(), "Notes", true)
	if len(docs) != 1 || !strings.Contains(docs[0].Content, "full body") {
		t.Errorf("docs = %+v", docs)
	}
}

func TestListCategoriesAndSubcategories(t *testing.T) {
	svc, dir := testService(t, nil)
	writeDoc(t, dir, "Tech_Learning/Programming/a.md", "# A\n")
	writeDoc(t, dir, "Tech_Learning/React/b.md", "# B\n")

	cats := svc.ListCategories(context.Background())
	if len(cats) != 1 || cats[0].Display != "Tech Learning" {
		t.Errorf("cats = %+v", cats)
	}
	subs := svc.ListSubcategories(context.Background(), "tech-learning")
	if len(subs) != 2 || subs[0] != "Programming" {
		t.Errorf("subs = %v", subs)
	}
}
