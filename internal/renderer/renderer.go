// Package renderer converts document Markdown to display-ready HTML.
// Headings receive deterministic anchor identifiers, code blocks are
// wrapped in language-labelled containers, and top-level headings gain
// self-link anchors.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns Markdown into decorated HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer with GitHub-flavoured Markdown, autolinking and
// task-list support.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts content to HTML. Heading identifiers come from a slugger
// created per call, so rendering the same document twice yields identical
// anchors.
func (r *Renderer) Render(content string) (string, error) {
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	out, err := Decorate(buf.String())
	if err != nil {
		return "", fmt.Errorf("decorate html: %w", err)
	}
	return out, nil
}
