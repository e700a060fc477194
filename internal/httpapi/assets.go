package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// AssetHandler serves non-Markdown files (images, PDFs, anything a document
// references) from the documentation tree, read-only.
type AssetHandler struct {
	docsRoot string
}

// NewAssetHandler creates a handler rooted at the docs directory.
func NewAssetHandler(docsRoot string) *AssetHandler {
	return &AssetHandler{docsRoot: docsRoot}
}

// safePath validates the request path and returns the absolute path under
// the docs root. Traversal and Markdown files are rejected; documents go
// through the document endpoints.
func (h *AssetHandler) safePath(rel string) (string, bool) {
	if rel == "" || strings.HasSuffix(rel, ".md") {
		return "", false
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", false
	}
	return filepath.Join(h.docsRoot, cleaned), true
}

// ServeFile handles GET /api/assets/*.
func (h *AssetHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	abs, ok := h.safePath(rel)
	if !ok {
		http.Error(w, "invalid asset path", http.StatusBadRequest)
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
