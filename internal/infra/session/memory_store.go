package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"medistore/internal/domain/entity"
	"medistore/internal/domain/service"
)

// memoryStore keeps sessions in process memory. Sessions do not survive restarts
// and are not shared between replicas.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]entity.SessionRecord
	now      func() time.Time
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore() service.SessionStore {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		sessions: make(map[uuid.UUID]entity.SessionRecord),
		now:      now,
	}
}

func (s *memoryStore) Create(_ context.Context, record *entity.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[record.ID] = *record

	return nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*entity.SessionRecord, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || record.IsExpired(s.now()) {
		return nil, service.ErrSessionNotFound
	}

	return &record, nil
}

func (s *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

func (s *memoryStore) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.sessions {
		if record.UserID == userID {
			delete(s.sessions, id)
		}
	}

	return nil
}

// sweepLocked drops expired sessions. Caller holds mu.
func (s *memoryStore) sweepLocked() {
	now := s.now()
	for id, record := range s.sessions {
		if record.IsExpired(now) {
			delete(s.sessions, id)
		}
	}
}
