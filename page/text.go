// ABOUTME: Character ranges over an element's text, measured the way a browser Range measures them.
// ABOUTME: Offsets count code points of decoded text nodes, so markup and entity escapes never shift them.
package page

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrRangeOutOfBounds means a range is empty, negative, or past the end of the text.
	ErrRangeOutOfBounds = errors.New("text range out of bounds")
	// ErrRangeSpansNodes means a range crosses an element boundary.
	ErrRangeSpansNodes = errors.New("text range crosses markup")
)

// textRun is one non-empty text node and its [start, end) offsets within
// the element's text.
type textRun struct {
	node       *html.Node
	start, end int
}

func (n *Node) el() *html.Node {
	return n.sel.Get(0)
}

// textRuns lists the text nodes under root in document order. Comments
// contribute nothing.
func textRuns(root *html.Node) []textRun {
	var runs []textRun
	pos := 0
	var walk func(*html.Node)
	walk = func(parent *html.Node) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if l := utf8.RuneCountInString(c.Data); l > 0 {
					runs = append(runs, textRun{node: c, start: pos, end: pos + l})
					pos += l
				}
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(root)
	return runs
}

// TextLen returns the length of the element's text in code points.
func (n *Node) TextLen() int {
	runs := textRuns(n.el())
	if len(runs) == 0 {
		return 0
	}
	return runs[len(runs)-1].end
}

// locate finds the single text node holding [start, end).
func (n *Node) locate(start, end int) (textRun, error) {
	runs := textRuns(n.el())
	total := 0
	if len(runs) > 0 {
		total = runs[len(runs)-1].end
	}
	if start < 0 || end <= start || end > total {
		return textRun{}, fmt.Errorf("%w: %d..%d of %d", ErrRangeOutOfBounds, start, end, total)
	}
	for _, r := range runs {
		if start >= r.start && start < r.end {
			if end > r.end {
				return textRun{}, fmt.Errorf("%w: %d..%d", ErrRangeSpansNodes, start, end)
			}
			return r, nil
		}
	}
	return textRun{}, fmt.Errorf("%w: %d..%d of %d", ErrRangeOutOfBounds, start, end, total)
}

// CheckTextRange reports whether [start, end) is a non-empty range inside
// one text node of the element.
func (n *Node) CheckTextRange(start, end int) error {
	_, err := n.locate(start, end)
	return err
}

func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// WrapText moves characters [start, end) of the element's text into a new
// tag element at the same place. The range must lie inside one text node.
func (n *Node) WrapText(start, end int, tag string, attrs ...html.Attribute) error {
	run, err := n.locate(start, end)
	if err != nil {
		return err
	}
	t := run.node
	runes := []rune(t.Data)
	a, b := start-run.start, end-run.start

	wrapper := newElement(tag, attrs...)
	wrapper.AppendChild(&html.Node{Type: html.TextNode, Data: string(runes[a:b])})

	parent := t.Parent
	if a > 0 {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: string(runes[:a])}, t)
	}
	parent.InsertBefore(wrapper, t)
	if b < len(runes) {
		t.Data = string(runes[b:])
	} else {
		parent.RemoveChild(t)
	}
	return nil
}

// TextAncestors returns the names of the elements between the character at
// pos and the element itself, innermost first.
func (n *Node) TextAncestors(pos int) ([]string, error) {
	run, err := n.locate(pos, pos+1)
	if err != nil {
		return nil, err
	}
	root := n.el()
	var tags []string
	for p := run.node.Parent; p != nil && p != root; p = p.Parent {
		tags = append(tags, p.Data)
	}
	return tags, nil
}

// RenameTextAncestor renames the innermost from element enclosing the
// character at pos, below the element itself. It reports whether one existed.
func (n *Node) RenameTextAncestor(pos int, from, to string) (bool, error) {
	run, err := n.locate(pos, pos+1)
	if err != nil {
		return false, err
	}
	root := n.el()
	for p := run.node.Parent; p != nil && p != root; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == from {
			p.Data = to
			p.DataAtom = atom.Lookup([]byte(to))
			return true, nil
		}
	}
	return false, nil
}

// ChildTags returns the names of the element's direct element children.
func (n *Node) ChildTags() []string {
	var tags []string
	for c := n.el().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tags = append(tags, c.Data)
		}
	}
	return tags
}

// WrapChildren moves every child of the element into one new tag element.
func (n *Node) WrapChildren(tag string) {
	root := n.el()
	wrapper := newElement(tag)
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		root.RemoveChild(c)
		wrapper.AppendChild(c)
		c = next
	}
	root.AppendChild(wrapper)
}
