// ABOUTME: Bounded undo history of serialized snapshots with FIFO eviction of the oldest entry.
// ABOUTME: Entries are stored as encoded values so later document edits can never alter history.
package editor

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultHistoryCapacity is the number of snapshots kept before eviction.
const DefaultHistoryCapacity = 30

// UndoEntry is one historical snapshot. IDs increase in push order.
type UndoEntry struct {
	ID   ulid.ULID
	Data string
	At   time.Time
}

// Snapshot decodes the entry.
func (e UndoEntry) Snapshot() (Snapshot, error) {
	return DecodeSnapshot([]byte(e.Data))
}

// UndoStack is not safe for concurrent use; the owning session serializes access.
type UndoStack struct {
	capacity int
	entries  []UndoEntry
	entropy  *ulid.MonotonicEntropy
}

// NewUndoStack returns an empty stack. A non-positive capacity uses DefaultHistoryCapacity.
func NewUndoStack(capacity int) *UndoStack {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &UndoStack{
		capacity: capacity,
		entries:  make([]UndoEntry, 0, capacity),
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

// Push appends a snapshot, evicting the oldest entry when over capacity.
func (u *UndoStack) Push(s Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	u.entries = append(u.entries, UndoEntry{
		ID:   ulid.MustNew(ulid.Now(), u.entropy),
		Data: string(data),
		At:   time.Now(),
	})
	if len(u.entries) > u.capacity {
		u.entries = u.entries[len(u.entries)-u.capacity:]
	}
	return nil
}

// Undo discards the current top and pops the entry beneath it, returning
// that entry for the caller to re-apply (and push back as the new top).
// With fewer than two entries nothing is popped and ErrNothingToUndo is returned.
func (u *UndoStack) Undo() (Snapshot, error) {
	if len(u.entries) < 2 {
		return Snapshot{}, ErrNothingToUndo
	}
	prev := u.entries[len(u.entries)-2]
	snap, err := prev.Snapshot()
	if err != nil {
		return Snapshot{}, fmt.Errorf("restore previous state: %w", err)
	}
	u.entries = u.entries[:len(u.entries)-2]
	return snap, nil
}

// TopData returns the encoded top entry.
func (u *UndoStack) TopData() (string, bool) {
	if len(u.entries) == 0 {
		return "", false
	}
	return u.entries[len(u.entries)-1].Data, true
}

// Len returns the number of entries.
func (u *UndoStack) Len() int {
	return len(u.entries)
}

// Capacity returns the eviction threshold.
func (u *UndoStack) Capacity() int {
	return u.capacity
}

// Entries returns a copy of the history, oldest first.
func (u *UndoStack) Entries() []UndoEntry {
	out := make([]UndoEntry, len(u.entries))
	copy(out, u.entries)
	return out
}
