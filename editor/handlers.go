// ABOUTME: HTTP handler methods for the live page and every editing action.
// ABOUTME: JSON responses carry the session state plus any toasts queued by the action.

package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// scriptTag loads the editor client into the served page. It is never part
// of the session document, and the data-starpr marker lets exports drop it.
const scriptTag = `<script data-starpr src="/static/starpr.js" data-session="%s"></script>`

type actionResponse struct {
	State  StateView `json:"state"`
	Toasts []Toast   `json:"toasts"`
	Error  string    `json:"error,omitempty"`
	Result any       `json:"result,omitempty"`
}

// handleNewSession opens a fresh session and redirects the browser to it.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create()
	if err != nil {
		log.Printf("editor: create session failed error=%v", err)
		http.Error(w, "could not open page", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/s/"+sess.ID+"/", http.StatusSeeOther)
}

// handlePage serves the live document with the editor client attached.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	markup, err := sess.Render()
	if err != nil {
		http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(injectScript(markup, sess.ID)))
}

// injectScript places the client script just before the closing body tag.
func injectScript(markup, sessionID string) string {
	tag := fmt.Sprintf(scriptTag, sessionID)
	i := strings.LastIndex(strings.ToLower(markup), "</body>")
	if i < 0 {
		return markup + tag
	}
	return markup[:i] + tag + markup[i:]
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respond(w, sess, nil, nil)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Credential string `json:"credential"`
	}
	if !decodeJSON(w, r, sess, &body) {
		return
	}
	s.respond(w, sess, sess.Toggle(body.Credential), nil)
}

// handleEditRegion replaces a text region's markup with the raw request body.
func (s *Server) handleEditRegion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key, ok := regionKeyParam(w, r, sess)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	markup, err := io.ReadAll(r.Body)
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	s.respond(w, sess, sess.EditText(key, string(markup)), nil)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var sel Selection
	if !decodeJSON(w, r, sess, &sel) {
		return
	}
	s.respond(w, sess, sess.Select(sel), nil)
}

func (s *Server) handleClickOutside(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClickOutside()
	s.respond(w, sess, nil, nil)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	cmd, err := ParseCommand(chi.URLParam(r, "command"))
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	var body struct {
		URL string `json:"url"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, sess, &body) {
		return
	}
	s.respond(w, sess, sess.ApplyCommand(cmd, body.URL), nil)
}

func (s *Server) handleEditLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key, ok := regionKeyParam(w, r, sess)
	if !ok {
		return
	}
	var body struct {
		Href string `json:"href"`
	}
	if !decodeJSON(w, r, sess, &body) {
		return
	}
	s.respond(w, sess, sess.EditLink(key, body.Href), nil)
}

func (s *Server) handleDropAvatar(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key, ok := regionKeyParam(w, r, sess)
	if !ok {
		return
	}
	up, err := readUpload(w, r)
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	replaced, err := sess.DropAvatar(key, up)
	s.respond(w, sess, err, map[string]bool{"replaced": replaced})
}

func (s *Server) handlePickAvatar(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key, ok := regionKeyParam(w, r, sess)
	if !ok {
		return
	}
	s.respond(w, sess, sess.PickAvatar(key), nil)
}

func (s *Server) handleAvatarFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	up, err := readUpload(w, r)
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	replaced, err := sess.AvatarFileChosen(up)
	s.respond(w, sess, err, map[string]bool{"replaced": replaced})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	err := sess.Undo()
	if errors.Is(err, ErrNothingToUndo) {
		err = nil
	}
	s.respond(w, sess, err, nil)
}

func (s *Server) handleExportEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	d, err := sess.ExportEdits()
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	writeDownload(w, d)
}

// handleImportEdits accepts the edits file either as a multipart "file"
// field or as the raw request body.
func (s *Server) handleImportEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		up, err := readUpload(w, r)
		if err != nil {
			s.respond(w, sess, err, nil)
			return
		}
		data = up.Data
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		b, err := io.ReadAll(r.Body)
		if err != nil {
			s.respond(w, sess, err, nil)
			return
		}
		data = b
	}
	res, err := sess.ImportEdits(data)
	s.respond(w, sess, err, res)
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	d, err := sess.ExportHTML()
	if err != nil {
		s.respond(w, sess, err, nil)
		return
	}
	writeDownload(w, d)
}

// handleKey runs a keyboard shortcut. Shortcuts that produce a file answer
// with the download itself.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev KeyEvent
	if !decodeJSON(w, r, sess, &ev) {
		return
	}
	res, err := sess.HandleKey(ev)
	if err == nil && res.Download != nil {
		writeDownload(w, *res.Download)
		return
	}
	s.respond(w, sess, err, map[string]bool{"handled": res.Handled})
}

// session looks up the route's session, answering 404 when it is gone.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func regionKeyParam(w http.ResponseWriter, r *http.Request, sess *Session) (RegionKey, bool) {
	key, err := ParseRegionKey(r.URL.Query().Get("key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{
			State:  sess.State(),
			Toasts: sess.DrainToasts(),
			Error:  err.Error(),
		})
		return RegionKey{}, false
	}
	return key, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, sess *Session, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		status := http.StatusBadRequest
		if isTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, actionResponse{
			State:  sess.State(),
			Toasts: sess.DrainToasts(),
			Error:  fmt.Sprintf("bad request body: %v", err),
		})
		return false
	}
	return true
}

// readUpload reads the multipart "file" field, enforcing the upload cap.
func readUpload(w http.ResponseWriter, r *http.Request) (Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return Upload{}, err
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, err
	}
	return Upload{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// respond writes the session state, drained toasts, and the mapped status for err.
func (s *Server) respond(w http.ResponseWriter, sess *Session, err error, result any) {
	resp := actionResponse{Result: result}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		resp.Error = err.Error()
	}
	resp.State = sess.State()
	resp.Toasts = sess.DrainToasts()
	if resp.Toasts == nil {
		resp.Toasts = []Toast{}
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrLocked), errors.Is(err, ErrNoPendingTarget):
		return http.StatusConflict
	case errors.Is(err, ErrRegionInactive):
		return http.StatusNotFound
	case errors.Is(err, ErrMalformedSnapshot), errors.Is(err, ErrCommandAborted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrUnknownCommand):
		return http.StatusBadRequest
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("editor: write response failed error=%v", err)
	}
}

func writeDownload(w http.ResponseWriter, d Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, d.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(d.Body)
}
