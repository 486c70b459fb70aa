// ABOUTME: Snapshot codec: captures editable region content into a portable value and applies it back.
// ABOUTME: Serialized as indented JSON with sorted keys; unmatched keys are skipped on apply.
package editor

import (
	"encoding/json"
	"fmt"
	"log"
)

// Snapshot is the content of every editable region at one instant.
// Text holds inner markup of text and anchor regions, Avatars holds image
// sources, Links holds anchor hrefs. Map keys are RegionKey strings.
type Snapshot struct {
	Text    map[string]string `json:"text"`
	Avatars map[string]string `json:"avatars"`
	Links   map[string]string `json:"links,omitempty"`
}

// NewSnapshot returns an empty snapshot with allocated maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Text:    make(map[string]string),
		Avatars: make(map[string]string),
		Links:   make(map[string]string),
	}
}

// Len returns the total number of entries.
func (s Snapshot) Len() int {
	return len(s.Text) + len(s.Avatars) + len(s.Links)
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := NewSnapshot()
	for k, v := range s.Text {
		out.Text[k] = v
	}
	for k, v := range s.Avatars {
		out.Avatars[k] = v
	}
	for k, v := range s.Links {
		out.Links[k] = v
	}
	return out
}

// Equal reports whether both snapshots hold the same entries.
func (s Snapshot) Equal(o Snapshot) bool {
	return mapsEqual(s.Text, o.Text) && mapsEqual(s.Avatars, o.Avatars) && mapsEqual(s.Links, o.Links)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Capture records the current content of every region. It does not mutate
// the document.
func Capture(regions []Region) Snapshot {
	snap := NewSnapshot()
	for _, r := range regions {
		key := r.Key.String()
		switch r.Kind {
		case KindText, KindAnchor:
			markup, err := r.Node.InnerHTML()
			if err != nil {
				log.Printf("editor: capture skipped region=%s error=%v", key, err)
				continue
			}
			snap.Text[key] = markup
			if r.Kind == KindAnchor {
				href, _ := r.Node.Attr("href")
				snap.Links[key] = href
			}
		case KindAvatar:
			src, _ := r.Node.Attr("src")
			snap.Avatars[key] = src
		}
	}
	return snap
}

// ApplyResult counts snapshot entries written to the document and entries
// with no matching live region.
type ApplyResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// Apply writes snapshot values into the matching regions. Entries whose key
// has no live region of a compatible kind are skipped.
func Apply(regions []Region, snap Snapshot) ApplyResult {
	live := indexRegions(regions)
	var res ApplyResult

	for key, markup := range snap.Text {
		r, ok := live[key]
		if !ok || (r.Kind != KindText && r.Kind != KindAnchor) {
			res.Skipped++
			continue
		}
		if cur, err := r.Node.InnerHTML(); err != nil || cur != markup {
			r.Node.SetInnerHTML(markup)
		}
		res.Applied++
	}

	for key, src := range snap.Avatars {
		r, ok := live[key]
		if !ok || r.Kind != KindAvatar {
			res.Skipped++
			continue
		}
		r.Node.SetAttr("src", src)
		res.Applied++
	}

	for key, href := range snap.Links {
		r, ok := live[key]
		if !ok || r.Kind != KindAnchor {
			res.Skipped++
			continue
		}
		setHref(r.Node, href)
		res.Applied++
	}

	return res
}

// EncodeSnapshot serializes a snapshot as indented JSON. Map keys are
// sorted by encoding/json, so equal snapshots encode identically.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Text == nil {
		s.Text = map[string]string{}
	}
	if s.Avatars == nil {
		s.Avatars = map[string]string{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// snapshotWire distinguishes a missing field from an empty one.
type snapshotWire struct {
	Text    *map[string]string `json:"text"`
	Avatars *map[string]string `json:"avatars"`
	Links   *map[string]string `json:"links"`
}

// DecodeSnapshot parses a serialized snapshot. A payload that is not a JSON
// object, or carries none of the snapshot fields, is malformed.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if w.Text == nil && w.Avatars == nil && w.Links == nil {
		return Snapshot{}, fmt.Errorf("%w: no text, avatars, or links field", ErrMalformedSnapshot)
	}

	snap := NewSnapshot()
	copyInto(snap.Text, w.Text)
	copyInto(snap.Avatars, w.Avatars)
	copyInto(snap.Links, w.Links)
	return snap, nil
}

func copyInto(dst map[string]string, src *map[string]string) {
	if src == nil {
		return
	}
	for k, v := range *src {
		dst[k] = v
	}
}
