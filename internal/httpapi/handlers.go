// Package httpapi exposes the documentation catalog over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/docservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.svc.ListCategories(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"total":      len(cats),
	})
}

// ListSubcategories handles GET /api/categories/{category}/subcategories.
// An unknown category yields an empty list, not a 404; clients treat the
// catalog as best-effort.
func (h *Handler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subs := h.svc.ListSubcategories(r.Context(), category)
	if subs == nil {
		subs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subcategories": subs,
		"total":         len(subs),
	})
}

// ListDocuments handles GET /api/categories/{category}/documents.
// ?include_content=true switches from header-only reads to full content.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	includeContent := r.URL.Query().Get("include_content") == "true"

	docs := h.svc.ListDocuments(r.Context(), category, includeContent)
	if docs == nil {
		docs = []catalog.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument handles GET /api/documents/{category}/{subcategory}/{slug}.
// The document checksum doubles as an ETag; If-None-Match short-circuits
// to 304 without rendering.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subcategory := chi.URLParam(r, "subcategory")
	slug := chi.URLParam(r, "slug")

	detail, err := h.svc.GetDocument(r.Context(), category, subcategory, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	etag := `"` + detail.Checksum + `"`
	if match := strings.Trim(r.Header.Get("If-None-Match"), `"`); match != "" && match == detail.Checksum {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, detail)
}
