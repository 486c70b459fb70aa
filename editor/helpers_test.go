// ABOUTME: Shared fixtures for editor tests: a virtual clock and a small copy of the starpr page.
// ABOUTME: The fake clock runs due callbacks synchronously from Advance, in due order.

package editor

import (
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2389-research/starpr/kvstore"
	"github.com/2389-research/starpr/page"
)

const testPage = `<!doctype html>
<html><head><title>starpr</title></head><body>
<header><button id="editToggle">Edit</button><button id="saveBtn">Save</button><button id="exportBtn">Export</button><button id="importBtn">Import</button><input type="file" id="importFile"/><input type="file" id="avatarFile"/></header>
<section id="hero"><h1 id="hero-title">Grow your channel</h1><p id="hero-sub">Ads that work</p></section>
<section id="about"><div id="about-text">We are starpr.</div></section>
<section id="services"><div class="card"><h4>Ads</h4><p>Placement</p></div><div class="card"><h4>Audit</h4><p>Review</p></div></section>
<section id="team"><div class="team-card"><div class="avatar"><img src="a.png"/></div><strong>Ann</strong><span class="muted">CEO</span></div><div class="team-card"><div class="avatar"><img src="b.png"/></div><strong>Bob</strong><span class="muted">CTO</span></div></section>
<section id="contacts"><a id="phoneLink" href="tel:+100">+100</a><a id="emailLink" href="mailto:hi@starpr.test">hi@starpr.test</a><a id="telegramLink" href="#">(not set)</a></section>
</body></html>`

// 11 text regions, 3 anchors, 2 avatars.
const testRegionCount = 16

// Regions plus the toolbar and autosave subscriptions.
const testAffordanceCount = testRegionCount + 2

const testCode = DefaultCreatorCode

var (
	keyHeroTitle = RegionKey{Selector: "#hero-title", Index: 0}
	keyAbout     = RegionKey{Selector: "#about-text", Index: 0}
	keyPhone     = RegionKey{Selector: "#phoneLink", Index: 0}
	keyEmail     = RegionKey{Selector: "#emailLink", Index: 0}
	keyTelegram  = RegionKey{Selector: "#telegramLink", Index: 0}
	keyAvatar0   = RegionKey{Selector: ".team-card .avatar img", Index: 0}
	keyAvatar1   = RegionKey{Selector: ".team-card .avatar img", Index: 1}
)

// pngData is a PNG signature plus header chunk, enough for content sniffing.
var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type fakeTimer struct {
	clock   *fakeClock
	due     time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, due: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every timer that falls due,
// including timers scheduled by callbacks along the way.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var live []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired {
				live = append(live, t)
			}
		}
		c.timers = live
		sort.Slice(live, func(i, j int) bool {
			if !live[i].due.Equal(live[j].due) {
				return live[i].due.Before(live[j].due)
			}
			return live[i].seq < live[j].seq
		})
		if len(live) == 0 || live[0].due.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := live[0]
		next.fired = true
		c.now = next.due
		c.mu.Unlock()

		next.f()
	}
}

// Scheduled returns the number of timers still waiting to fire.
func (c *fakeClock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type testEnv struct {
	sess  *Session
	clock *fakeClock
	kv    *kvstore.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithKV(t, kvstore.NewMemoryStore())
}

func newTestEnvWithKV(t *testing.T, kv *kvstore.MemoryStore) *testEnv {
	t.Helper()
	doc, err := page.ParseString(testPage)
	if err != nil {
		t.Fatalf("parse test page: %v", err)
	}
	clock := newFakeClock()
	sess := NewSession("test", doc, Options{
		Config:      DefaultConfig(),
		Persistence: NewGateway(kv, DefaultStorageKey),
		Clock:       clock,
	})
	return &testEnv{sess: sess, clock: clock, kv: kv}
}

// editing returns a fresh session already in edit mode.
func editing(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	if err := env.sess.Enter(testCode); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	env.sess.DrainToasts()
	return env
}

// text returns the captured inner markup of a region.
func (e *testEnv) text(t *testing.T, key RegionKey) string {
	t.Helper()
	v, ok := e.sess.Capture().Text[key.String()]
	if !ok {
		t.Fatalf("no captured text for %s", key)
	}
	return v
}

// stored returns the persisted snapshot.
func (e *testEnv) stored(t *testing.T) Snapshot {
	t.Helper()
	raw, ok, err := e.kv.Get(DefaultStorageKey)
	if err != nil || !ok {
		t.Fatalf("no stored snapshot: ok=%v err=%v", ok, err)
	}
	snap, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		t.Fatalf("stored snapshot: %v", err)
	}
	return snap
}

func render(t *testing.T, s *Session) string {
	t.Helper()
	out, err := s.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

func hasToast(toasts []Toast, level ToastLevel, substr string) bool {
	for _, ts := range toasts {
		if ts.Level == level && strings.Contains(ts.Message, substr) {
			return true
		}
	}
	return false
}
