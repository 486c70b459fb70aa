// ABOUTME: Node is a handle on one live element of a Document.
// ABOUTME: Reads and writes inner markup, text, and attributes without owning the element.
package page

import (
	"github.com/PuerkitoBio/goquery"
)

// Node wraps a single element. It stays valid as long as the element is
// attached to its document; mutations are visible to later queries.
type Node struct {
	sel *goquery.Selection
}

// Tag returns the lower-case element name, e.g. "a" or "img".
func (n *Node) Tag() string {
	return goquery.NodeName(n.sel)
}

// InnerHTML returns the element's serialized children.
func (n *Node) InnerHTML() (string, error) {
	return n.sel.Html()
}

// SetInnerHTML replaces the element's children with the parsed markup.
func (n *Node) SetInnerHTML(markup string) {
	n.sel.SetHtml(markup)
}

// Text returns the concatenated text content.
func (n *Node) Text() string {
	return n.sel.Text()
}

// SetText replaces the element's children with a single text node.
func (n *Node) SetText(text string) {
	n.sel.SetText(text)
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) {
	n.sel.SetAttr(name, value)
}

// RemoveAttr deletes an attribute. Removing a missing attribute is a no-op.
func (n *Node) RemoveAttr(name string) {
	n.sel.RemoveAttr(name)
}

// Remove detaches the element from its document.
func (n *Node) Remove() {
	n.sel.Remove()
}
