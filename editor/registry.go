// ABOUTME: Editable region registry: resolves the versioned selector list against the live document.
// ABOUTME: Region keys are (selector, positional index) pairs, stable within one editing session only.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389-research/starpr/page"
)

// Kind says how a region is edited and captured.
type Kind int

const (
	KindText Kind = iota
	KindAnchor
	KindAvatar
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindAnchor:
		return "anchor"
	case KindAvatar:
		return "avatar"
	default:
		return "unknown"
	}
}

// RegionKey identifies a region by the selector that matched it and its
// 0-based position among that selector's matches. Keys drift if the page
// markup is reordered between versions; snapshots carry no guard against that.
type RegionKey struct {
	Selector string
	Index    int
}

// String renders the key as "selector@index", the form used in snapshots.
func (k RegionKey) String() string {
	return k.Selector + "@" + strconv.Itoa(k.Index)
}

// ParseRegionKey is the inverse of RegionKey.String. The index is taken
// from after the last '@' so selectors containing '@' still parse.
func ParseRegionKey(s string) (RegionKey, error) {
	i := strings.LastIndexByte(s, '@')
	if i <= 0 || i == len(s)-1 {
		return RegionKey{}, fmt.Errorf("region key %q: want selector@index", s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return RegionKey{}, fmt.Errorf("region key %q: bad index", s)
	}
	return RegionKey{Selector: s[:i], Index: idx}, nil
}

// Region is a view over one live element. It owns nothing.
type Region struct {
	Key  RegionKey
	Kind Kind
	Node *page.Node
}

// Selectors is the fixed list of editable regions for one page version.
type Selectors struct {
	Version int      `yaml:"version" json:"version"`
	Text    []string `yaml:"text" json:"text"`
	Anchors []string `yaml:"anchors" json:"anchors"`
	Avatars []string `yaml:"avatars" json:"avatars"`
}

// DefaultSelectors returns the region list of the starpr landing page.
func DefaultSelectors() Selectors {
	return Selectors{
		Version: 1,
		Text: []string{
			"#hero-title",
			"#hero-sub",
			"#about-text",
			"#services .card h4",
			"#services .card p",
			"#team .team-card strong",
			"#team .team-card .muted",
		},
		Anchors: []string{"#phoneLink", "#emailLink", "#telegramLink"},
		Avatars: []string{".team-card .avatar img"},
	}
}

// Validate checks that every selector compiles.
func (s Selectors) Validate() error {
	for _, group := range [][]string{s.Text, s.Anchors, s.Avatars} {
		for _, sel := range group {
			if err := page.ValidSelector(sel); err != nil {
				return err
			}
		}
	}
	return nil
}

// Registry resolves Selectors against a document.
type Registry struct {
	selectors Selectors
}

// NewRegistry returns a registry for the given selector list.
func NewRegistry(selectors Selectors) *Registry {
	return &Registry{selectors: selectors}
}

// Selectors returns the registry's selector list.
func (r *Registry) Selectors() Selectors {
	return r.selectors
}

// Resolve queries the document afresh and returns every present region,
// text first, then anchors, then avatars. Selectors with no match are skipped.
func (r *Registry) Resolve(doc *page.Document) []Region {
	var regions []Region
	add := func(selectors []string, kind Kind) {
		for _, sel := range selectors {
			for i, n := range doc.Select(sel) {
				regions = append(regions, Region{
					Key:  RegionKey{Selector: sel, Index: i},
					Kind: kind,
					Node: n,
				})
			}
		}
	}
	add(r.selectors.Text, KindText)
	add(r.selectors.Anchors, KindAnchor)
	add(r.selectors.Avatars, KindAvatar)
	return regions
}

// indexRegions maps key strings to regions.
func indexRegions(regions []Region) map[string]Region {
	m := make(map[string]Region, len(regions))
	for _, r := range regions {
		m[r.Key.String()] = r
	}
	return m
}

// MarshalText encodes the key in its string form.
func (k RegionKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the string form.
func (k *RegionKey) UnmarshalText(b []byte) error {
	parsed, err := ParseRegionKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
