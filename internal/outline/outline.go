// Package outline extracts an ordered table of contents from raw Markdown.
// Identifier assignment uses the same per-document slugger the renderer
// stamps onto heading elements, so outline links always resolve to anchors
// that exist in the rendered body.
package outline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/slug"
)

var (
	fenceRe = regexp.MustCompile("(?s)```.*?```")
	atxRe   = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)
	// closingRe matches an ATX closing hash sequence, which the renderer
	// strips before assigning an anchor. The sequence must be preceded by
	// whitespace (or be the whole text) so "C#" is left intact.
	closingRe   = regexp.MustCompile(`(?:^|[ \t])#+[ \t]*$`)
	underlineRe = regexp.MustCompile(`^ {0,3}(=+|-+)[ \t]*$`)
)

// Heading is one Markdown heading with its anchor identifier. Identifiers
// are unique within a document even when heading text repeats.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Extractor scans documents for headings. Headings whose text equals one of
// the configured table-of-contents labels are excluded so an outline never
// links to itself.
type Extractor struct {
	tocLabels map[string]struct{}
}

// DefaultTOCLabels are the heading texts treated as a document's own
// table-of-contents section.
var DefaultTOCLabels = []string{"Table of Contents", "目录"}

// NewExtractor creates an extractor. A nil labels slice uses
// DefaultTOCLabels.
func NewExtractor(labels []string) *Extractor {
	if labels == nil {
		labels = DefaultTOCLabels
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return &Extractor{tocLabels: set}
}

// MaskCodeFences replaces every fenced code block, fences included, with an
// opaque CODE_BLOCK_<n> placeholder so #-prefixed lines inside code samples
// are never mistaken for headings. The removed blocks are returned in order.
func MaskCodeFences(content string) (string, []string) {
	var blocks []string
	masked := fenceRe.ReplaceAllStringFunc(content, func(m string) string {
		placeholder := fmt.Sprintf("CODE_BLOCK_%d", len(blocks))
		blocks = append(blocks, m)
		return placeholder
	})
	return masked, blocks
}

// Extract returns the document's headings in document order with unique,
// non-empty identifiers. ATX closing hash sequences are trimmed and
// single-line setext headings are recognized, matching what the renderer
// assigns anchors to. Levels 4-6 consume identifiers (the renderer assigns
// them anchors too) but only levels 1-3 appear in the outline.
// A document without headings yields nil, not an error.
func (e *Extractor) Extract(content string) []Heading {
	masked, _ := MaskCodeFences(content)
	lines := strings.Split(masked, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	slugger := slug.NewSlugger()
	var out []Heading
	for i := 0; i < len(lines); i++ {
		var level int
		var text string
		if m := atxRe.FindStringSubmatch(lines[i]); m != nil {
			level = len(m[1])
			text = strings.TrimSpace(closingRe.ReplaceAllString(strings.TrimSpace(m[2]), ""))
		} else if lvl := setextLevel(lines, i); lvl != 0 {
			level = lvl
			text = strings.TrimSpace(lines[i])
			i++ // skip the underline
		} else {
			continue
		}
		id := slugger.Slug(text)
		if level > 3 {
			continue
		}
		if _, isTOC := e.tocLabels[text]; isTOC {
			continue
		}
		out = append(out, Heading{ID: id, Text: text, Level: level})
	}
	return out
}

var orderedListRe = regexp.MustCompile(`^\d+[.)][ \t]`)

// setextLevel reports whether lines[i] is the text of a single-line setext
// heading underlined by lines[i+1]: level 1 for =, 2 for -, 0 for neither.
// Only single-line setext paragraphs are recognized; the text line must not
// open another block (quote, list, thematic break, masked fence).
func setextLevel(lines []string, i int) int {
	text := strings.TrimSpace(lines[i])
	if text == "" || i+1 >= len(lines) {
		return 0
	}
	if i > 0 && strings.TrimSpace(lines[i-1]) != "" {
		return 0
	}
	if strings.HasPrefix(text, ">") || strings.HasPrefix(text, "- ") ||
		strings.HasPrefix(text, "* ") || strings.HasPrefix(text, "+ ") ||
		strings.HasPrefix(text, "CODE_BLOCK_") || orderedListRe.MatchString(text) ||
		underlineRe.MatchString(lines[i]) {
		return 0
	}
	m := underlineRe.FindStringSubmatch(lines[i+1])
	if m == nil {
		return 0
	}
	if m[1][0] == '=' {
		return 1
	}
	return 2
}
