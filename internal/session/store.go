package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"nucleav/internal/model"
)

// ErrNotFound is returned when a session ID has no live record.
var ErrNotFound = errors.New("session: not found")

// Store persists session records for their fixed lifetime.
// Implementations: in-process memory (single instance) and Redis (shared).
type Store interface {
	// Put saves the record until its ExpiresAt.
	Put(ctx context.Context, sess *model.Session) error
	// Get returns the record or ErrNotFound. Expired records count as missing.
	Get(ctx context.Context, id string) (*model.Session, error)
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// memoryStore keeps sessions in process memory for the lifetime of the
// service. Expired entries are dropped lazily on access.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	now      func() time.Time
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

func (s *memoryStore) Put(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }
