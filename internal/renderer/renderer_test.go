package renderer

import (
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/outline"
)

func TestRender_HeadingIDs(t *testing.T) {
	r := New()
	out, err := r.Render("# Guide\n\n## Setup\n\n## Setup\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{`id="guide"`, `id="setup"`, `id="setup-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
}

func TestRender_AgreesWithOutline(t *testing.T) {
	content := "# Intro\n\nOverview\n========\n\n#### Deep Setup\n\n## Setup ##\n\n```go\n# fence\n```\n\n## Setup\n"

	r := New()
	out, err := r.Render(content)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	headings := outline.NewExtractor(nil).Extract(content)
	for _, h := range headings {
		if !strings.Contains(out, `id="`+h.ID+`"`) {
			t.Errorf("outline id %q has no matching anchor in rendered HTML", h.ID)
		}
	}
}

func TestRender_ClosingHashHeadings(t *testing.T) {
	content := "## Setup ##\n\n## Setup\n"

	r := New()
	out, err := r.Render(content)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{`id="setup"`, `id="setup-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}

	headings := outline.NewExtractor(nil).Extract(content)
	if len(headings) != 2 {
		t.Fatalf("headings = %+v", headings)
	}
	// The closing hash sequence is stripped on both sides, so the second
	// heading collides and takes the suffix.
	if headings[0].ID != "setup" || headings[1].ID != "setup-1" {
		t.Errorf("outline ids = %q, %q", headings[0].ID, headings[1].ID)
	}
}

func TestRender_SetextHeadings(t *testing.T) {
	content := "Setup\n=====\n\n## Setup\n"

	r := New()
	out, err := r.Render(content)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{`id="setup"`, `id="setup-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}

	headings := outline.NewExtractor(nil).Extract(content)
	if len(headings) != 2 {
		t.Fatalf("headings = %+v", headings)
	}
	if headings[0].ID != "setup" || headings[0].Level != 1 {
		t.Errorf("setext heading = %+v", headings[0])
	}
	if headings[1].ID != "setup-1" {
		t.Errorf("following heading id = %q", headings[1].ID)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := New()
	content := "## A\n\n## A\n\n### B\n"
	first, err := r.Render(content)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render(content)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Error("renders of the same document differ")
	}
}

func TestRender_GFMTable(t *testing.T) {
	r := New()
	out, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("table not rendered: %q", out)
	}
}

func TestDecorate_CodeBlockWrapper(t *testing.T) {
	out, err := Decorate(`<pre><code class="language-go">fmt.Println()</code></pre>`)
	if err != nil {
		t.Fatalf("Decorate: %v", err)
	}
	if !strings.Contains(out, `class="code-block"`) {
		t.Errorf("missing wrapper: %q", out)
	}
	if !strings.Contains(out, `data-language="go"`) {
		t.Errorf("missing language: %q", out)
	}
	if !strings.Contains(out, "fmt.Println()") {
		t.Errorf("code lost: %q", out)
	}
}

func TestDecorate_HeadingAnchor(t *testing.T) {
	out, err := Decorate(`<h2 id="setup">Setup</h2><h4 id="deep">Deep</h4>`)
	if err != nil {
		t.Fatalf("Decorate: %v", err)
	}
	if !strings.Contains(out, `href="#setup"`) {
		t.Errorf("missing anchor: %q", out)
	}
	// Anchors only decorate h1-h3.
	if strings.Contains(out, `href="#deep"`) {
		t.Errorf("unexpected anchor on h4: %q", out)
	}
}

func TestDecorate_NoIDNoAnchor(t *testing.T) {
	out, err := Decorate(`<h2>Plain</h2>`)
	if err != nil {
		t.Fatalf("Decorate: %v", err)
	}
	if strings.Contains(out, "heading-anchor") {
		t.Errorf("anchor added without id: %q", out)
	}
}
