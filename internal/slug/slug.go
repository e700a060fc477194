// Package slug provides the string transforms shared by URL routing, catalog
// resolution, and heading anchor generation.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w-]`)
)

// Slugify lowercases text, collapses whitespace runs into single hyphens,
// and strips everything outside word characters and hyphens. Idempotent:
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRe.ReplaceAllString(s, "-")
	return nonWordRe.ReplaceAllString(s, "")
}

// TitleCase converts a hyphenated slug into a spaced, capitalized title.
// Not an inverse of Slugify: original casing and punctuation are lost.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, "-")
	for i, p := range parts {
		parts[i] = Capitalize(p)
	}
	return strings.Join(parts, " ")
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// CategoryCandidates returns the plausible on-disk directory names for a URL
// path segment. Directories use the Capitalized_With_Underscores convention
// while URLs use lowercase-with-hyphens, so resolution tries the segment
// as-is, with hyphens turned into underscores, and with each hyphen segment
// capitalized and underscore-joined.
func CategoryCandidates(raw string) []string {
	underscored := strings.ReplaceAll(raw, "-", "_")

	parts := strings.Split(raw, "-")
	for i, p := range parts {
		parts[i] = Capitalize(p)
	}
	capitalized := strings.Join(parts, "_")

	return []string{raw, underscored, capitalized}
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics and case-folds s for fuzzy comparison, so "Café"
// and "cafe" compare equal.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
