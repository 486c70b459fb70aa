// ABOUTME: In-memory session store with TTL cleanup and capacity limits
// ABOUTME: Thread-safe storage for the live editor sessions, one per browser tab

package editor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionFactory builds a fresh session for id.
type SessionFactory func(id string) (*Session, error)

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	factory     SessionFactory
}

// NewStore creates a new session store
func NewStore(maxSessions int, ttl time.Duration, factory SessionFactory) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		factory:     factory,
	}
}

// Create builds a new session, evicting the least recently used one when full
func (s *Store) Create() (*Session, error) {
	sess, err := s.factory(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldestTime time.Time
		for id, old := range s.sessions {
			if oldestTime.IsZero() || old.LastAccess.Before(oldestTime) {
				oldestID = id
				oldestTime = old.LastAccess
			}
		}
		s.evictLocked(oldestID, "capacity")
	}

	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get retrieves a session by ID and updates its LastAccess time
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	sess.LastAccess = time.Now()
	return sess, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			s.evictLocked(id, "ttl")
		}
	}
}

// CloseAll stops every session's timers and empties the store
func (s *Store) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.sessions {
		s.evictLocked(id, "shutdown")
	}
}

func (s *Store) evictLocked(id, reason string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	sess.Close()
	log.Printf("editor: session evicted id=%s reason=%s", id, reason)
}

// StartCleanup starts a background cleanup goroutine and returns a stop function
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
