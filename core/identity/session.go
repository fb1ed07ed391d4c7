package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps live sessions in process memory. Nothing is persisted:
// a restart logs everyone out and access tokens never touch storage.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	nowFunc  func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		nowFunc:  time.Now,
	}
}

// Create registers a new session for id in one step.
func (s *SessionStore) Create(id Identity, token AccessToken) Session {
	sess := Session{
		ID:          uuid.New().String(),
		Identity:    id,
		AccessToken: token,
		CreatedAt:   s.nowFunc().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return Session{}, ErrSessionNotFound
}

func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
