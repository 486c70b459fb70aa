// ABOUTME: Inline formatting toolbar: shown for a non-empty selection inside an active text region.
// ABOUTME: Offers bold, italic, heading, and link; each successful command is committed immediately.
package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/2389-research/starpr/page"
	"golang.org/x/net/html"
)

const toolbarClass = "starpr-toolbar"

const toolbarMarkup = `<div class="` + toolbarClass + `" hidden>` +
	`<button type="button" data-cmd="bold"><b>B</b></button>` +
	`<button type="button" data-cmd="italic"><i>I</i></button>` +
	`<button type="button" data-cmd="heading">H</button>` +
	`<button type="button" data-cmd="link">Link</button>` +
	`</div>`

// Command is a toolbar formatting operation.
type Command string

const (
	CommandBold    Command = "bold"
	CommandItalic  Command = "italic"
	CommandHeading Command = "heading"
	CommandLink    Command = "link"
)

// ParseCommand maps a name to a Command.
func ParseCommand(name string) (Command, error) {
	switch c := Command(strings.ToLower(strings.TrimSpace(name))); c {
	case CommandBold, CommandItalic, CommandHeading, CommandLink:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Selection is a character range [Start, End) of a text region's text.
// Offsets count code points of the decoded text, ignoring markup, as a
// browser Range reports them.
type Selection struct {
	Region RegionKey `json:"region"`
	Start  int       `json:"start"`
	End    int       `json:"end"`
}

// Collapsed reports whether the selection is empty.
func (sel Selection) Collapsed() bool {
	return sel.End <= sel.Start
}

type toolbarState struct {
	attached bool
	visible  bool
	sel      Selection
}

// ToolbarView is the externally visible toolbar state.
type ToolbarView struct {
	Attached  bool       `json:"attached"`
	Visible   bool       `json:"visible"`
	Selection *Selection `json:"selection,omitempty"`
}

func (t toolbarState) view() ToolbarView {
	v := ToolbarView{Attached: t.attached, Visible: t.visible}
	if t.visible {
		sel := t.sel
		v.Selection = &sel
	}
	return v
}

func (s *Session) attachToolbarLocked() {
	s.doc.AppendToBody(toolbarMarkup)
	s.toolbar = toolbarState{attached: true}
}

func (s *Session) detachToolbarLocked() {
	s.doc.Remove("." + toolbarClass)
	s.toolbar = toolbarState{}
}

func (s *Session) showToolbarLocked(sel Selection) {
	s.toolbar.visible = true
	s.toolbar.sel = sel
	for _, n := range s.doc.Select("." + toolbarClass) {
		n.RemoveAttr("hidden")
		n.SetAttr("data-anchor", sel.Region.String())
	}
}

func (s *Session) hideToolbarLocked() {
	if !s.toolbar.visible {
		return
	}
	s.toolbar.visible = false
	s.toolbar.sel = Selection{}
	for _, n := range s.doc.Select("." + toolbarClass) {
		n.SetAttr("hidden", "")
		n.RemoveAttr("data-anchor")
	}
}

// Select reports the operator's current selection. A collapsed selection
// hides the toolbar; a valid one shows it anchored to the region. An invalid
// selection hides the toolbar and returns ErrInvalidSelection.
func (s *Session) Select(sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		return ErrLocked
	}
	if sel.Collapsed() {
		s.hideToolbarLocked()
		return nil
	}
	if _, err := s.validSelectionLocked(sel); err != nil {
		s.hideToolbarLocked()
		return err
	}
	s.showToolbarLocked(sel)
	return nil
}

// ClickOutside hides the toolbar, as a click outside both the toolbar and
// any editable region does.
func (s *Session) ClickOutside() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideToolbarLocked()
}

func (s *Session) validSelectionLocked(sel Selection) (Region, error) {
	r, err := s.activeRegionLocked(sel.Region, KindText)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if err := r.Node.CheckTextRange(sel.Start, sel.End); err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	return r, nil
}

// ApplyCommand runs cmd on the visible selection. url is used by the link
// command only; a blank url aborts it with ErrCommandAborted and no change.
// A command that leaves the region as it was commits nothing.
func (s *Session) ApplyCommand(cmd Command, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		return ErrLocked
	}
	if !s.toolbar.visible {
		return fmt.Errorf("%w: toolbar is hidden", ErrInvalidSelection)
	}
	sel := s.toolbar.sel
	r, err := s.validSelectionLocked(sel)
	if err != nil {
		s.hideToolbarLocked()
		return err
	}

	changed, err := format(r.Node, sel, cmd, url)
	if err != nil {
		return err
	}
	s.hideToolbarLocked()
	if changed {
		s.commitLocked(string(cmd))
	}
	return nil
}

// format applies cmd to the selected characters of n and reports whether
// the region changed.
func format(n *page.Node, sel Selection, cmd Command, url string) (bool, error) {
	wrap := func(tag string, attrs ...html.Attribute) (bool, error) {
		if err := n.WrapText(sel.Start, sel.End, tag, attrs...); err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		return true, nil
	}

	switch cmd {
	case CommandBold:
		return wrap("b")
	case CommandItalic:
		return wrap("i")
	case CommandHeading:
		return formatHeading(n, sel)
	case CommandLink:
		url = strings.TrimSpace(url)
		if url == "" {
			return false, fmt.Errorf("%w: no link URL", ErrCommandAborted)
		}
		tags, err := n.TextAncestors(sel.Start)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		if n.Tag() == "a" || slices.Contains(tags, "a") {
			return false, fmt.Errorf("%w: selection is already a link", ErrCommandAborted)
		}
		return wrap("a", html.Attribute{Key: "href", Val: url})
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

// headingHosts are region elements that may contain an <h2> directly.
var headingHosts = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true, "header": true,
	"footer": true, "main": true, "blockquote": true, "li": true, "td": true, "th": true, "dd": true,
}

// phrasingTags may appear inside a heading.
var phrasingTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true, "code": true, "em": true,
	"i": true, "img": true, "mark": true, "q": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true,
}

// formatHeading turns the block holding the selection into an <h2>. A <p>
// inside the region is retagged. A region that holds only inline content is
// wrapped when its element can contain a heading. Anything else, such as a
// <p> or <h1> region, aborts: the nesting would not survive a re-parse.
func formatHeading(n *page.Node, sel Selection) (bool, error) {
	tags, err := n.TextAncestors(sel.Start)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if slices.Contains(tags, "h2") {
		return false, nil
	}
	if slices.Contains(tags, "p") {
		return n.RenameTextAncestor(sel.Start, "p", "h2")
	}
	if !headingHosts[n.Tag()] {
		return false, fmt.Errorf("%w: a <%s> region cannot hold a heading", ErrCommandAborted, n.Tag())
	}
	for _, tag := range n.ChildTags() {
		if !phrasingTags[tag] {
			return false, fmt.Errorf("%w: region has a <%s> block", ErrCommandAborted, tag)
		}
	}
	n.WrapChildren("h2")
	return true, nil
}
