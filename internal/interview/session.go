package interview

import (
	"sync"

	"hireflow-backend/internal/ai"
	"hireflow-backend/internal/jobs"
)

// Session is the in-memory state of one live interview connection. The
// question order is shuffled once at session start and never reshuffled; the
// cursor only moves forward.
type Session struct {
	ApplicationID string
	Questions     []jobs.Question
	Cursor        int
	Transcript    []ai.TranscriptEntry
}

// Current returns the question the candidate must answer next.
func (s *Session) Current() jobs.Question {
	return s.Questions[s.Cursor]
}

// Done reports whether every question has been answered or skipped.
func (s *Session) Done() bool {
	return s.Cursor >= len(s.Questions)
}

// SessionStore holds live sessions keyed by connection ID. Each connection is
// served by a single goroutine, so only the map itself needs locking.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get returns the session for a connection, if any.
func (s *SessionStore) Get(connID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[connID]
	return sess, ok
}

// Put registers a session for a connection, replacing any previous one.
func (s *SessionStore) Put(connID string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[connID] = sess
}

// Delete removes the session for a connection.
func (s *SessionStore) Delete(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, connID)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
