// Package dom is the host-page boundary: a parsed HTML document that the
// extractor and highlighter operate on in place.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed page. It is not safe for concurrent mutation.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML page. The parser always synthesizes <html>, <head> and
// <body>, so Body and Head never return nil for a parsed document.
func Parse(r io.Reader) (*Document, error) {
	d, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{doc: d}, nil
}

// ParseString is Parse over an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// Find runs a CSS selector over the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Body returns the <body> element, or the root if there is none.
func (d *Document) Body() *html.Node {
	if n := firstElement(d.Root(), atom.Body); n != nil {
		return n
	}
	return d.Root()
}

// Head returns the <head> element, or nil if there is none.
func (d *Document) Head() *html.Node {
	return firstElement(d.Root(), atom.Head)
}

// TextContent returns the body's textContent.
func (d *Document) TextContent() string {
	return TextContent(d.Body())
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.Root()); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// HTML renders the document to a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstElement(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}
