// ABOUTME: Global keyboard shortcuts: modifier+S saves the page as HTML, modifier+Z undoes.
// ABOUTME: Ctrl and Meta both count as the platform modifier.
package editor

import (
	"errors"
	"strings"
)

// KeyEvent is a key press reported by the page.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
}

// KeyResult says whether the shortcut was consumed (and the browser default
// must be suppressed), plus any file it produced.
type KeyResult struct {
	Handled  bool
	Download *Download
}

// HandleKey dispatches a shortcut. Undo with nothing to undo is still
// handled; the session queues a toast instead.
func (s *Session) HandleKey(ev KeyEvent) (KeyResult, error) {
	if !ev.Ctrl && !ev.Meta {
		return KeyResult{}, nil
	}

	switch strings.ToLower(ev.Key) {
	case "s":
		d, err := s.ExportHTML()
		if err != nil {
			return KeyResult{Handled: true}, err
		}
		return KeyResult{Handled: true, Download: &d}, nil
	case "z":
		err := s.Undo()
		if errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrLocked) {
			err = nil
		}
		return KeyResult{Handled: true}, err
	}
	return KeyResult{}, nil
}
