package renderer

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"

	"github.com/starford/ansuz/internal/slug"
)

// headingIDs plugs the document slugger into goldmark's heading ID
// generation. Every render gets a fresh instance so identifier sequences
// restart per document and match the outline extractor exactly.
type headingIDs struct {
	slugger *slug.Slugger
}

var _ parser.IDs = (*headingIDs)(nil)

func newHeadingIDs() *headingIDs {
	return &headingIDs{slugger: slug.NewSlugger()}
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(h.slugger.Slug(string(value)))
}

func (h *headingIDs) Put(value []byte) {
	h.slugger.Put(string(value))
}
