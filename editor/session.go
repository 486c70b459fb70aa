// ABOUTME: Edit-mode controller: one session owns a live page, its lock state, history, and timers.
// ABOUTME: Every committed change runs capture -> save -> push; all entry points are gated on Editing.
package editor

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/2389-research/starpr/page"
)

// Mode is the edit-mode state.
type Mode int

const (
	Locked Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "locked"
}

// Options wires a session to its collaborators. Zero fields get defaults,
// except Persistence, which is required. A Config with zero HistoryCapacity
// is replaced by DefaultConfig.
type Options struct {
	Config      Config
	Gate        Gate
	Persistence *Gateway
	Clock       Clock
}

// Session is one operator's view of the page. All methods are safe for
// concurrent use; timers and requests are serialized by mu.
type Session struct {
	mu sync.Mutex

	ID         string
	CreatedAt  time.Time
	LastAccess time.Time

	cfg      Config
	doc      *page.Document
	registry *Registry
	gate     Gate
	persist  *Gateway
	clock    Clock

	mode     Mode
	history  *UndoStack
	debounce *Debouncer
	act      *activation
	live     int

	autosave      uint64
	autosaveTimer Timer

	toolbar      toolbarState
	avatarTarget *RegionKey
	toasts       []Toast
}

// NewSession creates a locked session over doc and restores the persisted
// snapshot into it, if one exists. History starts empty.
func NewSession(id string, doc *page.Document, opts Options) *Session {
	if opts.Config.HistoryCapacity == 0 {
		opts.Config = DefaultConfig()
	}
	if opts.Gate == nil {
		opts.Gate = NewSharedSecretGate(opts.Config.CreatorCode)
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}

	now := opts.Clock.Now()
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		LastAccess: now,
		cfg:        opts.Config,
		doc:        doc,
		registry:   NewRegistry(opts.Config.Selectors),
		gate:       opts.Gate,
		persist:    opts.Persistence,
		clock:      opts.Clock,
		history:    NewUndoStack(opts.Config.HistoryCapacity),
	}
	s.debounce = NewDebouncer(s.clock, opts.Config.QuietPeriod, &s.mu, s.commitRegionLocked)

	if snap, ok := s.persist.Load(); ok {
		res := Apply(s.registry.Resolve(doc), snap)
		log.Printf("editor: restored snapshot session=%s applied=%d skipped=%d", id, res.Applied, res.Skipped)
	}
	return s
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle enters edit mode with credential when locked, and leaves it otherwise.
func (s *Session) Toggle(credential string) error {
	if s.Mode() == Editing {
		s.Exit()
		return nil
	}
	return s.Enter(credential)
}

// Enter checks the credential and, on success, activates every region,
// attaches the toolbar, starts autosave, and records a baseline entry.
// On mismatch nothing is attached and ErrUnauthorized is returned.
func (s *Session) Enter(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == Editing {
		return nil
	}
	if !s.gate.Check(credential) {
		s.toastLocked(ToastError, "Incorrect code")
		return ErrUnauthorized
	}

	s.mode = Editing
	s.activateLocked()
	s.commitLocked("baseline")
	s.toastLocked(ToastInfo, "Editing ON")
	log.Printf("editor: edit mode on session=%s regions=%d", s.ID, len(s.act.regions))
	return nil
}

// Exit commits pending text edits, then detaches everything Enter attached.
// Calling it while locked is a no-op.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		return
	}
	if keys := s.debounce.Drain(); len(keys) > 0 {
		s.commitLocked("exit")
	}
	s.deactivateLocked()
	s.mode = Locked
	s.toastLocked(ToastInfo, "Editing OFF")
	log.Printf("editor: edit mode off session=%s history=%d", s.ID, s.history.Len())
}

// Close commits any text edits still waiting out their quiet period, then
// stops timers and detaches; used when a session is evicted.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keys := s.debounce.Drain(); len(keys) > 0 && s.mode == Editing {
		s.commitLocked("close")
	}
	if s.mode == Editing {
		s.deactivateLocked()
		s.mode = Locked
	}
}

func (s *Session) activateLocked() {
	regions := s.registry.Resolve(s.doc)
	act := &activation{regions: indexRegions(regions)}
	for _, r := range regions {
		attach, detach := regionAffordance(r)
		act.attach(&s.live, attach, detach)
	}
	act.attach(&s.live, s.attachToolbarLocked, s.detachToolbarLocked)
	act.attach(&s.live, s.startAutosaveLocked, s.stopAutosaveLocked)
	s.act = act
}

func (s *Session) deactivateLocked() {
	if s.act != nil {
		s.act.release()
		s.act = nil
	}
	s.avatarTarget = nil
}

// ActiveAffordances returns how many attached affordances are outstanding.
// It is zero whenever the session is locked.
func (s *Session) ActiveAffordances() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// HistoryLen returns the number of undo entries.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// regionsLocked returns the regions of the current activation, or a fresh
// resolution when locked. Within one activation keys never shift, even if
// edits add elements that a selector would also match.
func (s *Session) regionsLocked() []Region {
	if s.act == nil {
		return s.registry.Resolve(s.doc)
	}
	out := make([]Region, 0, len(s.act.regions))
	for _, r := range s.act.regions {
		out = append(out, r)
	}
	return out
}

// activeRegionLocked returns the region for key if it is active and of kind.
func (s *Session) activeRegionLocked(key RegionKey, kind Kind) (Region, error) {
	if s.mode != Editing || s.act == nil {
		return Region{}, ErrLocked
	}
	r, ok := s.act.regions[key.String()]
	if !ok || r.Kind != kind {
		return Region{}, fmt.Errorf("%w: %s", ErrRegionInactive, key)
	}
	return r, nil
}

// Capture returns the current snapshot of the page.
func (s *Session) Capture() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Capture(s.regionsLocked())
}

// commitLocked runs capture -> save -> push. Pending debounced commits are
// folded in. A capture identical to the current top is saved but not pushed,
// so repeated commits leave history unchanged.
func (s *Session) commitLocked(reason string) {
	s.debounce.Drain()

	snap := Capture(s.regionsLocked())
	if err := s.persist.Save(snap); err != nil {
		log.Printf("editor: save failed session=%s reason=%s error=%v", s.ID, reason, err)
		s.toastLocked(ToastError, "Could not save edits")
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		log.Printf("editor: encode failed session=%s reason=%s error=%v", s.ID, reason, err)
		return
	}
	if top, ok := s.history.TopData(); ok && top == string(data) {
		return
	}
	if err := s.history.Push(snap); err != nil {
		log.Printf("editor: history push failed session=%s error=%v", s.ID, err)
	}
}

// commitRegionLocked is the debounce callback for a text region.
func (s *Session) commitRegionLocked(key string) {
	if s.mode != Editing {
		return
	}
	s.commitLocked("edit " + key)
}

// applyLocked writes snap into the live page and commits the result.
func (s *Session) applyLocked(snap Snapshot, reason string) ApplyResult {
	res := Apply(s.regionsLocked(), snap)
	s.commitLocked(reason)
	return res
}

// EditText replaces a text region's markup. The history entry is recorded
// once typing pauses for the quiet period.
func (s *Session) EditText(key RegionKey, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.activeRegionLocked(key, KindText)
	if err != nil {
		return err
	}
	r.Node.SetInnerHTML(markup)
	s.debounce.Trigger(key.String())
	return nil
}

// PendingEdits returns how many regions are waiting out their quiet period.
func (s *Session) PendingEdits() int {
	return s.debounce.Pending()
}

// Undo restores the state before the last committed change. Pending text
// edits are committed first so they are what gets undone.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		s.toastLocked(ToastInfo, "Enable edit mode to undo")
		return ErrLocked
	}
	if keys := s.debounce.Drain(); len(keys) > 0 {
		s.commitLocked("pre-undo")
	}

	snap, err := s.history.Undo()
	if err != nil {
		if errors.Is(err, ErrNothingToUndo) {
			s.toastLocked(ToastInfo, "Nothing to undo")
		} else {
			log.Printf("editor: undo failed session=%s error=%v", s.ID, err)
			s.toastLocked(ToastError, "Undo failed")
		}
		return err
	}
	s.hideToolbarLocked()
	s.applyLocked(snap, "undo")
	return nil
}

// startAutosaveLocked schedules the recurring save. Each activation gets a
// new generation, so ticks from an earlier activation die out.
func (s *Session) startAutosaveLocked() {
	s.autosave++
	s.scheduleAutosaveLocked(s.autosave)
}

func (s *Session) stopAutosaveLocked() {
	s.autosave++
	if s.autosaveTimer != nil {
		s.autosaveTimer.Stop()
		s.autosaveTimer = nil
	}
}

func (s *Session) scheduleAutosaveLocked(gen uint64) {
	s.autosaveTimer = s.clock.AfterFunc(s.cfg.AutosaveInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.mode != Editing || s.autosave != gen {
			return
		}
		s.commitLocked("autosave")
		s.scheduleAutosaveLocked(gen)
	})
}

// Render serializes the live page.
func (s *Session) Render() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Render()
}

// RegionView describes one active region to the page client.
type RegionView struct {
	Key      string `json:"key"`
	Selector string `json:"selector"`
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
}

// StateView is the externally visible session state.
type StateView struct {
	Mode        string       `json:"mode"`
	History     int          `json:"history"`
	Pending     int          `json:"pending"`
	Affordances int          `json:"affordances"`
	Toolbar     ToolbarView  `json:"toolbar"`
	Regions     []RegionView `json:"regions,omitempty"`
}

// State returns a point-in-time view of the session.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateView{
		Mode:        s.mode.String(),
		History:     s.history.Len(),
		Pending:     s.debounce.Pending(),
		Affordances: s.live,
		Toolbar:     s.toolbar.view(),
		Regions:     s.regionViewsLocked(),
	}
}

// regionViewsLocked lists the active regions sorted by key; nil when locked.
func (s *Session) regionViewsLocked() []RegionView {
	if s.act == nil {
		return nil
	}
	out := make([]RegionView, 0, len(s.act.regions))
	for _, r := range s.act.regions {
		out = append(out, RegionView{
			Key:      r.Key.String(),
			Selector: r.Key.Selector,
			Index:    r.Key.Index,
			Kind:     r.Kind.String(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
