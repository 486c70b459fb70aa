// ABOUTME: Tests for the page document wrapper: selection order, mutation, cloning, and rendering.
// ABOUTME: Uses small inline HTML fixtures shaped like the marketing site sections.
package page

import (
	"strings"
	"testing"
)

const fixture = `<!doctype html>
<html><head><title>t</title></head>
<body>
<h1 id="hero-title">Hello <b>world</b></h1>
<div id="services">
  <div class="card"><h4>One</h4><p>First</p></div>
  <div class="card"><h4>Two</h4><p>Second</p></div>
</div>
<a id="phoneLink" href="tel:1">Call</a>
<img class="avatar" src="a.png">
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestSelectReturnsDocumentOrder(t *testing.T) {
	doc := mustParse(t)
	nodes := doc.Select("#services .card h4")
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Text() != "One" || nodes[1].Text() != "Two" {
		t.Fatalf("unexpected order: %q, %q", nodes[0].Text(), nodes[1].Text())
	}
}

func TestSelectNoMatchIsEmpty(t *testing.T) {
	doc := mustParse(t)
	if got := doc.Select("#missing"); len(got) != 0 {
		t.Fatalf("expected no nodes, got %d", len(got))
	}
}

func TestInnerHTMLRoundTrip(t *testing.T) {
	doc := mustParse(t)
	n := doc.Select("#hero-title")[0]
	inner, err := n.InnerHTML()
	if err != nil {
		t.Fatalf("inner html: %v", err)
	}
	if inner != "Hello <b>world</b>" {
		t.Fatalf("unexpected inner html %q", inner)
	}

	before, _ := doc.Render()
	n.SetInnerHTML(inner)
	after, _ := doc.Render()
	if before != after {
		t.Fatalf("document changed after rewriting identical markup")
	}
}

func TestAttrMutation(t *testing.T) {
	doc := mustParse(t)
	a := doc.Select("#phoneLink")[0]
	if a.Tag() != "a" {
		t.Fatalf("expected tag a, got %s", a.Tag())
	}
	a.SetAttr("href", "#")
	a.SetAttr("target", "_blank")
	a.RemoveAttr("target")
	a.RemoveAttr("target")
	if v, _ := a.Attr("href"); v != "#" {
		t.Fatalf("expected href #, got %q", v)
	}
	if _, ok := a.Attr("target"); ok {
		t.Fatal("expected target to be removed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := mustParse(t)
	clone := doc.Clone()
	clone.Select("#hero-title")[0].SetText("changed")
	if got := doc.Select("#hero-title")[0].Text(); got != "Hello world" {
		t.Fatalf("original mutated through clone: %q", got)
	}
}

func TestRemoveAndAppend(t *testing.T) {
	doc := mustParse(t)
	doc.AppendToBody(`<div class="toolbar">x</div>`)
	if doc.Count(".toolbar") != 1 {
		t.Fatal("expected appended element")
	}
	if n := doc.Remove(".toolbar"); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	doc.Select("#hero-title")[0].SetAttr("contenteditable", "true")
	if n := doc.RemoveAttr("contenteditable"); n != 1 {
		t.Fatalf("expected 1 attribute stripped, got %d", n)
	}
}

func TestOuterHTMLHasNoDoctype(t *testing.T) {
	doc := mustParse(t)
	out, err := doc.OuterHTML()
	if err != nil {
		t.Fatalf("outer html: %v", err)
	}
	if !strings.HasPrefix(out, "<html>") {
		t.Fatalf("expected root element first, got %q", out[:20])
	}
	full, _ := doc.Render()
	if !strings.HasPrefix(strings.ToLower(full), "<!doctype html>") {
		t.Fatalf("expected doctype in full render, got %q", full[:20])
	}
}

func TestValidSelector(t *testing.T) {
	if err := ValidSelector("#team .team-card strong"); err != nil {
		t.Fatalf("expected valid selector: %v", err)
	}
	if err := ValidSelector("##"); err == nil {
		t.Fatal("expected error for malformed selector")
	}
	if err := ValidSelector("  "); err == nil {
		t.Fatal("expected error for empty selector")
	}
}
