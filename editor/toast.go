// ABOUTME: Transient user notifications queued by a session and drained by the HTTP layer.
// ABOUTME: Errors that reach the operator surface here instead of failing the request.
package editor

import "time"

// ToastLevel classifies a toast for styling.
type ToastLevel string

const (
	ToastInfo  ToastLevel = "info"
	ToastError ToastLevel = "error"
)

// Toast is one transient notification.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// maxQueuedToasts bounds the queue when nobody drains it.
const maxQueuedToasts = 20

func (s *Session) toastLocked(level ToastLevel, msg string) {
	s.toasts = append(s.toasts, Toast{Level: level, Message: msg, At: s.clock.Now()})
	if len(s.toasts) > maxQueuedToasts {
		s.toasts = s.toasts[len(s.toasts)-maxQueuedToasts:]
	}
}

// DrainToasts returns and clears the queued toasts.
func (s *Session) DrainToasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}
