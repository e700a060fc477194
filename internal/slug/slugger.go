package slug

import "fmt"

// Slugger issues unique, non-empty heading identifiers for one document.
// A fresh Slugger must be used per document so the collision counters reset:
// two independent passes over the same input yield identical identifiers,
// which keeps table-of-contents links and rendered heading anchors in sync.
type Slugger struct {
	used map[string]struct{}
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{used: make(map[string]struct{})}
}

// Slug returns a unique identifier for heading text. The base is
// Slugify(text); an empty base (heading text was all punctuation or symbols)
// falls back to "section". Collisions get incrementing numeric suffixes
// (-1, -2, ...) until unique.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	if base == "" {
		base = "section"
	}
	id := base
	for i := 1; ; i++ {
		if _, taken := s.used[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
	s.used[id] = struct{}{}
	return id
}

// Put marks an identifier as already issued without generating one.
func (s *Slugger) Put(id string) {
	s.used[id] = struct{}{}
}
