// ABOUTME: Export and import of edit snapshots as JSON files, and standalone HTML page export.
// ABOUTME: Imports apply by region key and append to history; malformed files leave the page unchanged.
package editor

import (
	"fmt"
	"log"
	"strings"
)

// Fixed download names.
const (
	EditsFilename = "starpr_edits.json"
	HTMLFilename  = "starpr_saved.html"
)

// Download is a file produced for the operator.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportEdits captures the page and returns it as a JSON download.
func (s *Session) ExportEdits() (Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := EncodeSnapshot(Capture(s.regionsLocked()))
	if err != nil {
		return Download{}, err
	}
	return Download{
		Filename:    EditsFilename,
		ContentType: "application/json",
		Body:        data,
	}, nil
}

// ImportEdits parses data as a snapshot and applies it. Keys with no live
// region are skipped. The result is persisted and pushed onto history.
func (s *Session) ImportEdits(data []byte) (ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		s.toastLocked(ToastError, "Enable edit mode to import")
		return ApplyResult{}, ErrLocked
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		log.Printf("editor: import rejected session=%s error=%v", s.ID, err)
		s.toastLocked(ToastError, "Import failed: not a valid edits file")
		return ApplyResult{}, err
	}

	s.hideToolbarLocked()
	res := s.applyLocked(snap, "import")
	s.toastLocked(ToastInfo, fmt.Sprintf("Imported %d edits (%d skipped)", res.Applied, res.Skipped))
	return res, nil
}

// ExportHTML returns the whole page, minus editor controls and editing
// markers, as a standalone HTML download.
func (s *Session) ExportHTML() (Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := s.doc.Clone()
	for _, sel := range s.cfg.ControlSelectors {
		clone.Remove(sel)
	}
	for _, attr := range []string{attrContentEditable, attrLinkMarker, attrAvatarMarker} {
		clone.RemoveAttr(attr)
	}

	root, err := clone.OuterHTML()
	if err != nil {
		return Download{}, fmt.Errorf("export html: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n")
	b.WriteString(root)
	return Download{
		Filename:    HTMLFilename,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(b.String()),
	}, nil
}
