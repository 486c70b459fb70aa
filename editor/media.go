// ABOUTME: Avatar replacement by drop or by the shared file picker, encoding images as data URLs.
// ABOUTME: Media type is sniffed from content; anything that is not an image is silently ignored.
package editor

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is a file handed to the editor by the operator.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// imageType returns the upload's image media type, or ok=false for non-images.
// The sniffed type wins; the declared type is used only when sniffing is inconclusive.
func imageType(u Upload) (string, bool) {
	if len(u.Data) == 0 {
		return "", false
	}
	detected := mimetype.Detect(u.Data)
	mt := detected.String()
	if detected.Is("application/octet-stream") {
		mt = u.ContentType
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	mt = strings.TrimSpace(strings.ToLower(mt))
	if !strings.HasPrefix(mt, "image/") {
		return "", false
	}
	return mt, true
}

func dataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PickAvatar points the shared file picker at key, as a click on the avatar does.
func (s *Session) PickAvatar(key RegionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeRegionLocked(key, KindAvatar); err != nil {
		return err
	}
	k := key
	s.avatarTarget = &k
	return nil
}

// AvatarFileChosen replaces the most recently picked avatar with u.
// It reports whether the image source changed.
func (s *Session) AvatarFileChosen(u Upload) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Editing {
		return false, ErrLocked
	}
	if s.avatarTarget == nil {
		return false, ErrNoPendingTarget
	}
	return s.replaceAvatarLocked(*s.avatarTarget, u)
}

// DropAvatar replaces the avatar at key with a dropped file.
func (s *Session) DropAvatar(key RegionKey, u Upload) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceAvatarLocked(key, u)
}

func (s *Session) replaceAvatarLocked(key RegionKey, u Upload) (bool, error) {
	r, err := s.activeRegionLocked(key, KindAvatar)
	if err != nil {
		return false, err
	}
	mt, ok := imageType(u)
	if !ok {
		return false, nil
	}
	r.Node.SetAttr("src", dataURL(mt, u.Data))
	s.commitLocked("avatar " + key.String())
	return true, nil
}
