// ABOUTME: Click-to-edit URL behavior for anchor regions.
// ABOUTME: A blank URL unsets the link; Telegram links get a friendly label.
package editor

import (
	"strings"

	"github.com/2389-research/starpr/page"
)

const unsetLinkText = "(not set)"

// EditLink sets the anchor's URL and label the way the contact links expect.
func (s *Session) EditLink(key RegionKey, href string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.activeRegionLocked(key, KindAnchor)
	if err != nil {
		return err
	}

	href = strings.TrimSpace(href)
	if href == "" {
		r.Node.SetText(unsetLinkText)
		r.Node.SetAttr("href", "#")
		r.Node.RemoveAttr("target")
	} else {
		r.Node.SetAttr("href", href)
		r.Node.SetAttr("target", "_blank")
		if strings.Contains(href, "t.me") {
			r.Node.SetText("Message on Telegram")
		} else {
			r.Node.SetText(href)
		}
	}
	s.commitLocked("link " + key.String())
	return nil
}

// setHref applies a restored href. An unchanged href leaves the anchor
// untouched so that re-applying a capture is an identity.
func setHref(n *page.Node, href string) {
	cur, ok := n.Attr("href")
	if ok && cur == href || !ok && href == "" {
		return
	}
	switch href {
	case "":
		n.RemoveAttr("href")
		n.RemoveAttr("target")
	case "#":
		n.SetAttr("href", href)
		n.RemoveAttr("target")
	default:
		n.SetAttr("href", href)
		n.SetAttr("target", "_blank")
	}
}
