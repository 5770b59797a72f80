package memstore

import (
	"context"
	"sync"

	"book-locker/internal/domain/locker"

	"github.com/google/uuid"
)

type SystemLogStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]locker.LogEntry
}

func NewSystemLogStore() *SystemLogStore {
	return &SystemLogStore{entries: make(map[uuid.UUID][]locker.LogEntry)}
}

func (s *SystemLogStore) Append(_ context.Context, entry locker.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.LockerID] = append(s.entries[entry.LockerID], entry)
	return nil
}

func (s *SystemLogStore) ListByLocker(_ context.Context, lockerID uuid.UUID, limit int) ([]locker.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.entries[lockerID]
	n := len(src)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]locker.LogEntry, 0, n)
	for i := len(src) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, src[i])
	}
	return out, nil
}
