// ABOUTME: Live HTML document tree backed by goquery, queried by CSS selector and mutated in place.
// ABOUTME: Provides parse, select, append, remove, clone, and render operations used by the editor core.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It is not safe for concurrent use; callers
// serialize access (the editor session holds a lock around every mutation).
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// ValidSelector reports whether selector compiles as a CSS selector (or group).
func ValidSelector(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return fmt.Errorf("empty selector")
	}
	if _, err := cascadia.Compile(selector); err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return nil
}

// Select returns every element matching selector in document order.
// The query is evaluated against the live tree on every call.
func (d *Document) Select(selector string) []*Node {
	sel := d.doc.Find(selector)
	nodes := make([]*Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

// Count returns the number of elements matching selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// AppendToBody parses markup and appends it as the last children of <body>.
func (d *Document) AppendToBody(markup string) {
	d.doc.Find("body").First().AppendHtml(markup)
}

// Remove detaches every element matching selector and returns how many were removed.
func (d *Document) Remove(selector string) int {
	sel := d.doc.Find(selector)
	n := sel.Length()
	sel.Remove()
	return n
}

// RemoveAttr strips the named attribute from every element that carries it.
func (d *Document) RemoveAttr(name string) int {
	sel := d.doc.Find("[" + name + "]")
	n := sel.Length()
	sel.RemoveAttr(name)
	return n
}

// Clone returns a deep copy that shares no nodes with d.
func (d *Document) Clone() *Document {
	return &Document{doc: goquery.CloneDocument(d.doc)}
}

// Render serializes the whole document, including any doctype node.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

// OuterHTML serializes the root <html> element without the doctype.
func (d *Document) OuterHTML() (string, error) {
	root := d.doc.Find("html").First()
	if root.Length() == 0 {
		return "", fmt.Errorf("document has no root element")
	}
	out, err := goquery.OuterHtml(root)
	if err != nil {
		return "", fmt.Errorf("render root: %w", err)
	}
	return out, nil
}
