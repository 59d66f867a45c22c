package memsession

// Package memsession provides the in-memory server session store. Sessions
// live in a map guarded by a RWMutex and are lost on restart; the session
// reaper sweeps expired entries via DeleteExpired.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// Store is an in-memory ports.SessionStore implementation.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]domainauth.Session)}
}

func (s *Store) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session id is required")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		return apperrors.Validation("session is already expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	// Expired entries are treated as absent; the reaper deletes them later.
	if time.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	return sess, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteExpired removes up to batchSize sessions whose expiry is at or before
// now and returns the number removed.
func (s *Store) DeleteExpired(_ context.Context, now time.Time, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.ExpiresAt.After(now) {
			continue
		}
		delete(s.sessions, id)
		removed++
		if removed >= batchSize {
			break
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
