// ABOUTME: Subscriptions pair every affordance attached on entering edit mode with its detach.
// ABOUTME: Deactivation releases exactly what activation attached, so cycles cannot leak handlers.
package editor

import (
	"github.com/2389-research/starpr/page"
)

// Attribute markers written onto live regions while editing.
const (
	attrContentEditable = "contenteditable"
	attrLinkMarker      = "data-starpr-link"
	attrAvatarMarker    = "data-starpr-avatar"
)

// Subscription undoes one attached affordance. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	detach func()
	done   bool
	live   *int
}

func (s *subscription) Unsubscribe() {
	if s.done {
		return
	}
	s.done = true
	s.detach()
	*s.live--
}

// activation holds everything entering edit mode attached.
type activation struct {
	regions map[string]Region
	subs    []Subscription
}

// attach runs attach now and records detach. live counts outstanding subscriptions.
func (a *activation) attach(live *int, attach, detach func()) {
	attach()
	*live++
	a.subs = append(a.subs, &subscription{detach: detach, live: live})
}

// release unsubscribes in reverse attach order.
func (a *activation) release() {
	for i := len(a.subs) - 1; i >= 0; i-- {
		a.subs[i].Unsubscribe()
	}
	a.subs = nil
	a.regions = nil
}

// regionAffordance returns the attach/detach pair for a region's kind.
func regionAffordance(r Region) (attach, detach func()) {
	n := r.Node
	switch r.Kind {
	case KindAnchor:
		return markerPair(n, attrLinkMarker, "edit")
	case KindAvatar:
		return markerPair(n, attrAvatarMarker, "replace")
	default:
		return markerPair(n, attrContentEditable, "true")
	}
}

func markerPair(n *page.Node, name, value string) (attach, detach func()) {
	return func() { n.SetAttr(name, value) }, func() { n.RemoveAttr(name) }
}
