// Package apperr defines sentinel errors shared across service boundaries.
package apperr

import "errors"

var (
	// ErrNotFound signals that a category, subcategory, or document could
	// not be resolved. Callers render a not-found state instead of failing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPath signals a path that escapes the documentation root.
	ErrInvalidPath = errors.New("invalid path")
)
