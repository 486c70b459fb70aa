// ABOUTME: Sentinel errors returned by editor session operations.
// ABOUTME: Every one of them means "nothing changed"; none is fatal to the hosting page.
package editor

import "errors"

var (
	ErrUnauthorized      = errors.New("incorrect creator code")
	ErrLocked            = errors.New("edit mode is locked")
	ErrRegionInactive    = errors.New("region is not editable")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrInvalidSelection  = errors.New("selection is not inside an editable region")
	ErrCommandAborted    = errors.New("command aborted")
	ErrUnknownCommand    = errors.New("unknown formatting command")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrNoPendingTarget   = errors.New("no avatar selected for replacement")
)
