package renderer

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Decorate post-processes rendered HTML: fenced code blocks are wrapped in
// a language-labelled container and headings h1-h3 get a trailing self-link
// anchor. The input is parsed as a body fragment, so partial documents are
// fine.
func Decorate(in string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(in), ctx)
	if err != nil {
		return "", err
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	// Collect targets first; wrapping mutates the tree under our feet.
	var pres, headings []*html.Node
	visit(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Pre:
			pres = append(pres, n)
		case atom.H1, atom.H2, atom.H3:
			headings = append(headings, n)
		}
	})

	for _, pre := range pres {
		wrapCodeBlock(pre)
	}
	for _, h := range headings {
		appendAnchor(h)
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func visit(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// wrapCodeBlock replaces <pre><code class="language-x">…</code></pre> with
// a container div carrying the language, so clients can label and style
// code samples without re-parsing classes.
func wrapCodeBlock(pre *html.Node) {
	lang := ""
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			for _, cls := range strings.Fields(attr(c, "class")) {
				if strings.HasPrefix(cls, "language-") {
					lang = strings.TrimPrefix(cls, "language-")
					break
				}
			}
			break
		}
	}

	wrapper := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "class", Val: "code-block"},
			{Key: "data-language", Val: lang},
		},
	}

	parent := pre.Parent
	parent.InsertBefore(wrapper, pre)
	parent.RemoveChild(pre)
	wrapper.AppendChild(pre)
}

// appendAnchor adds a pilcrow self-link to a heading that carries an id.
func appendAnchor(h *html.Node) {
	id := attr(h, "id")
	if id == "" {
		return
	}
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "heading-anchor"},
			{Key: "href", Val: "#" + id},
			{Key: "aria-hidden", Val: "true"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: "¶"})
	h.AppendChild(a)
}
