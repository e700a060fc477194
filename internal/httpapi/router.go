package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
// docsRoot is used to resolve asset files referenced by documents.
func NewRouter(svc *docservice.Service, sseHandler http.Handler, docsRoot string) chi.Router {
	h := NewHandler(svc)
	ah := NewAssetHandler(docsRoot)

	r := chi.NewRouter()

	// Catalog.
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{category}/subcategories", h.ListSubcategories)
	r.Get("/categories/{category}/documents", h.ListDocuments)

	// Documents.
	r.Get("/documents/{category}/{subcategory}/{slug}", h.GetDocument)

	// Static assets referenced by documents.
	r.Get("/assets/*", ah.ServeFile)

	// SSE endpoint.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
