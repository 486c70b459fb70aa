// ABOUTME: Tests for character-offset text ranges: measuring, wrapping, and retagging.
// ABOUTME: Offsets must ignore entity escapes and never split a multi-byte character.
package page

import (
	"errors"
	"testing"
	"unicode/utf8"

	"golang.org/x/net/html"
)

func region(t *testing.T, markup string) *Node {
	t.Helper()
	doc, err := ParseString(`<html><body><div id="r">` + markup + `</div></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Select("#r")[0]
}

func inner(t *testing.T, n *Node) string {
	t.Helper()
	out, err := n.InnerHTML()
	if err != nil {
		t.Fatalf("inner html: %v", err)
	}
	return out
}

func TestTextLenCountsCharacters(t *testing.T) {
	tests := []struct {
		markup string
		want   int
	}{
		{"plain", 5},
		{"café", 4},
		{"Tom &amp; Jerry", 11},
		{"We&#39;re <b>the</b> best", 14},
		{"a<!-- note -->b", 2},
		{"", 0},
	}
	for _, tt := range tests {
		if got := region(t, tt.markup).TextLen(); got != tt.want {
			t.Errorf("TextLen(%q) = %d, want %d", tt.markup, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name       string
		markup     string
		start, end int
		want       string
	}{
		{"apostrophe before range", "We're the best", 10, 14, "We&#39;re the <b>best</b>"},
		{"second of a repeated word", "the cat and the hat", 12, 15, "the cat and <b>the</b> hat"},
		{"ampersand inside range", "Tom & Jerry", 4, 5, "Tom <b>&amp;</b> Jerry"},
		{"multi-byte character", "café au lait", 3, 4, "caf<b>é</b> au lait"},
		{"whole text", "Ads", 0, 3, "<b>Ads</b>"},
		{"after existing markup", "<i>Grow</i> your channel", 5, 9, "<i>Grow</i> <b>your</b> channel"},
		{"inside existing markup", "<i>Grow</i> your", 1, 3, "<i>G<b>ro</b>w</i> your"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := region(t, tt.markup)
			if err := n.WrapText(tt.start, tt.end, "b"); err != nil {
				t.Fatalf("WrapText: %v", err)
			}
			got := inner(t, n)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("invalid UTF-8 in %q", got)
			}
		})
	}
}

func TestWrapTextWithAttributes(t *testing.T) {
	n := region(t, "Grow your channel")
	if err := n.WrapText(0, 4, "a", html.Attribute{Key: "href", Val: `https://x.test/?a=1&b="2"`}); err != nil {
		t.Fatalf("WrapText: %v", err)
	}
	want := `<a href="https://x.test/?a=1&amp;b=&#34;2&#34;">Grow</a> your channel`
	if got := inner(t, n); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapTextRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name       string
		markup     string
		start, end int
		want       error
	}{
		{"past the end", "café", 0, 5, ErrRangeOutOfBounds},
		{"negative", "café", -1, 2, ErrRangeOutOfBounds},
		{"empty", "café", 2, 2, ErrRangeOutOfBounds},
		{"crosses markup", "<b>Grow</b> your", 2, 6, ErrRangeSpansNodes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := region(t, tt.markup)
			before := inner(t, n)
			if err := n.WrapText(tt.start, tt.end, "b"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got := inner(t, n); got != before {
				t.Fatalf("rejected range changed markup: %q", got)
			}
		})
	}
}

func TestTextAncestorsAndRename(t *testing.T) {
	n := region(t, "<p>One</p><p>Two <b>bold</b></p>")

	tags, err := n.TextAncestors(8)
	if err != nil {
		t.Fatalf("TextAncestors: %v", err)
	}
	if len(tags) != 2 || tags[0] != "b" || tags[1] != "p" {
		t.Fatalf("unexpected ancestors %v", tags)
	}

	ok, err := n.RenameTextAncestor(8, "p", "h2")
	if err != nil || !ok {
		t.Fatalf("RenameTextAncestor = %v, %v", ok, err)
	}
	if got := inner(t, n); got != "<p>One</p><h2>Two <b>bold</b></h2>" {
		t.Fatalf("unexpected markup %q", got)
	}

	if ok, _ := n.RenameTextAncestor(0, "li", "h2"); ok {
		t.Fatal("expected no li ancestor")
	}
}

func TestWrapChildrenAndChildTags(t *testing.T) {
	n := region(t, "We are <b>starpr</b>.")
	if tags := n.ChildTags(); len(tags) != 1 || tags[0] != "b" {
		t.Fatalf("unexpected child tags %v", tags)
	}
	n.WrapChildren("h2")
	if got := inner(t, n); got != "<h2>We are <b>starpr</b>.</h2>" {
		t.Fatalf("unexpected markup %q", got)
	}
}
