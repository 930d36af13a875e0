// Package session keeps the rolling turn log of sign language sessions.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

type memorySession struct {
	turns     []entity.SignTurn
	expiresAt time.Time
}

// MemoryStore is a process-local session store. Expired sessions are
// dropped when touched and by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
}

var _ domain.SignSessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store; ttl <= 0 keeps sessions forever and
// maxTurns <= 0 keeps every turn
func NewMemoryStore(ttl time.Duration, maxTurns int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		maxTurns: maxTurns,
		now:      time.Now,
	}
}

// Append implements domain.SignSessionStore
func (s *MemoryStore) Append(ctx context.Context, sessionID string, turns ...entity.SignTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getLocked(sessionID)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}
	sess.turns = append(sess.turns, turns...)
	if s.maxTurns > 0 && len(sess.turns) > s.maxTurns {
		sess.turns = append([]entity.SignTurn(nil), sess.turns[len(sess.turns)-s.maxTurns:]...)
	}
	if s.ttl > 0 {
		sess.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

// Recent implements domain.SignSessionStore
func (s *MemoryStore) Recent(ctx context.Context, sessionID string, n int) ([]entity.SignTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getLocked(sessionID)
	if sess == nil || n <= 0 {
		return []entity.SignTurn{}, nil
	}
	turns := sess.turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return append([]entity.SignTurn(nil), turns...), nil
}

// Delete implements domain.SignSessionStore
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired session and reports how many were dropped
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id := range s.sessions {
		if s.getLocked(id) == nil {
			dropped++
		}
	}
	return dropped
}

func (s *MemoryStore) getLocked(id string) *memorySession {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if !sess.expiresAt.IsZero() && !s.now().Before(sess.expiresAt) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}
