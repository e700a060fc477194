package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/locator"
	"github.com/starford/ansuz/internal/outline"
	"github.com/starford/ansuz/internal/renderer"
	"github.com/starford/ansuz/internal/storage"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	docsDir := t.TempDir()
	store, err := storage.NewFS(docsDir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	resolver := catalog.NewResolver(store, false, logger)
	svc := docservice.NewService(
		resolver,
		locator.New(store, resolver, logger),
		outline.NewExtractor(nil),
		renderer.New(),
		nil,
		logger,
	)
	return New(svc), docsDir
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

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "get_outline":
		result, err = srv.getOutline(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListCategories(t *testing.T) {
	srv, dir := testServer(t)
	writeDoc(t, dir, "Tech_Learning/Programming/a.md", "# A\n")

	r := callTool(t, srv, "list_categories", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Tech_Learning") || !strings.Contains(text, "tech-learning") {
		t.Errorf("categories = %q", text)
	}
}

func TestListDocuments(t *testing.T) {
	srv, dir := testServer(t)
	writeDoc(t, dir, "Notes/Misc/2024-01-01_a.md", "# Doc A\nbody\n")

	r := callTool(t, srv, "list_documents", map[string]interface{}{"category": "notes"})
	text := resultText(r)
	if !strings.Contains(text, "Doc A") || !strings.Contains(text, "2024-01-01") {
		t.Errorf("documents = %q", text)
	}
}

func TestListDocuments_EmptyCategory(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_documents", map[string]interface{}{"category": "absent"})
	if !strings.Contains(resultText(r), "no documents") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestReadDocument(t *testing.T) {
	srv, dir := testServer(t)
	writeDoc(t, dir, "Tech_Learning/Programming/2024-03-02_Closures.md",
		"# Understanding Closures\n\nClosures capture variables.\n")

	r := callTool(t, srv, "read_document", map[string]interface{}{
		"category":    "tech-learning",
		"subcategory": "programming",
		"slug":        "closures",
	})
	text := resultText(r)
	if !strings.Contains(text, "# Understanding Closures") {
		t.Errorf("missing title in %q", text)
	}
	if !strings.Contains(text, "Date: 2024-03-02") {
		t.Errorf("missing date in %q", text)
	}
	if !strings.Contains(text, "Closures capture variables.") {
		t.Errorf("missing body in %q", text)
	}
}

func TestReadDocument_Missing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_document", map[string]interface{}{
		"category":    "no",
		"subcategory": "such",
		"slug":        "doc",
	})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestGetOutline(t *testing.T) {
	srv, dir := testServer(t)
	writeDoc(t, dir, "Notes/Misc/guide.md",
		"# Guide\n\n## Setup\n\ntext\n\n## Setup\n\nmore\n")

	r := callTool(t, srv, "get_outline", map[string]interface{}{
		"category":    "notes",
		"subcategory": "misc",
		"slug":        "guide",
	})
	text := resultText(r)
	for _, want := range []string{`"setup"`, `"setup-1"`} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %s in outline %q", want, text)
		}
	}
}

func TestGetOutline_NoHeadings(t *testing.T) {
	srv, dir := testServer(t)
	writeDoc(t, dir, "Notes/Misc/plain.md", "just prose\n")

	r := callTool(t, srv, "get_outline", map[string]interface{}{
		"category":    "notes",
		"subcategory": "misc",
		"slug":        "plain",
	})
	if !strings.Contains(resultText(r), "no headings") {
		t.Errorf("result = %q", resultText(r))
	}
}
