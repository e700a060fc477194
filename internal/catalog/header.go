package catalog

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

var dateRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_`)

// fileMatter is the optional YAML frontmatter a document may carry. When
// present it overrides the file-name and first-line conventions.
type fileMatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

// header holds metadata parsed from the top of a document file.
type header struct {
	Title string
	Date  string
	Body  string // content with frontmatter and promoted title line removed
}

// parseHeader extracts title and date from data. fallback is the title used
// when neither frontmatter nor a leading level-1 heading provides one.
// The promoted title line is stripped from Body so it is never rendered
// twice.
func parseHeader(data []byte, fallback string) header {
	var fm fileMatter
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		rest = data
		fm = fileMatter{}
	}

	h := header{Title: fallback}
	body := string(rest)

	line, remainder, found := strings.Cut(body, "\n")
	if strings.HasPrefix(line, "# ") {
		if t := strings.TrimSpace(line[2:]); t != "" {
			h.Title = t
		}
		if found {
			body = strings.TrimSpace(remainder)
		} else {
			body = ""
		}
	}

	if fm.Title != "" {
		h.Title = fm.Title
	}
	h.Date = fm.Date
	h.Body = body
	return h
}

// Body returns document content with frontmatter and a promoted leading
// title line removed, so the title is never rendered twice.
func Body(data []byte) string {
	return parseHeader(data, "").Body
}

// dateFromName extracts the YYYY-MM-DD_ prefix from a file-name stem.
// An absent prefix yields an empty date, never a default.
func dateFromName(stem string) string {
	if m := dateRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return ""
}
