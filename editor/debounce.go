// ABOUTME: Per-key debounced commit: each trigger restarts a quiet period, and only the last one fires.
// ABOUTME: Firing takes the owner's lock, so commits interleave safely with other session operations.
package editor

import (
	"sort"
	"sync"
	"time"
)

// DefaultQuietPeriod is the pause after the last keystroke before a text edit is committed.
const DefaultQuietPeriod = 500 * time.Millisecond

type pendingCommit struct {
	timer Timer
	gen   uint64
}

// Debouncer coalesces repeated triggers per key into one commit call.
//
// commit runs with lock held. Drain must also be called with lock held; a
// timer that fires after its key was drained or re-triggered does nothing.
type Debouncer struct {
	clock  Clock
	quiet  time.Duration
	lock   sync.Locker
	commit func(key string)

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingCommit
}

// NewDebouncer returns a debouncer. A non-positive quiet period uses DefaultQuietPeriod.
func NewDebouncer(clock Clock, quiet time.Duration, lock sync.Locker, commit func(key string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		clock:   clock,
		quiet:   quiet,
		lock:    lock,
		commit:  commit,
		pending: make(map[string]pendingCommit),
	}
}

// Trigger (re)starts the quiet period for key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = pendingCommit{
		gen:   gen,
		timer: d.clock.AfterFunc(d.quiet, func() { d.fire(key, gen) }),
	}
}

func (d *Debouncer) fire(key string, gen uint64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	d.commit(key)
}

// Drain cancels every pending timer and returns the keys that were waiting, sorted.
func (d *Debouncer) Drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.pending))
	for k, p := range d.pending {
		p.timer.Stop()
		keys = append(keys, k)
	}
	d.pending = make(map[string]pendingCommit)
	sort.Strings(keys)
	return keys
}

// Pending returns the number of keys waiting for their quiet period.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
