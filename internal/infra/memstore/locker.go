package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"book-locker/internal/domain/locker"
	"book-locker/internal/infra"

	"github.com/google/uuid"
)

type LockerStore struct {
	mu      sync.RWMutex
	lockers map[uuid.UUID]*locker.Locker
}

func NewLockerStore() *LockerStore {
	return &LockerStore{lockers: make(map[uuid.UUID]*locker.Locker)}
}

func (s *LockerStore) Create(_ context.Context, l *locker.Locker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lockers[l.ID()]; ok {
		return infra.WrapRepoErr("locker already exists", nil, infra.KindDuplicateKey)
	}
	for _, other := range s.lockers {
		if other.Number() == l.Number() {
			return infra.WrapRepoErr("compartment number already in use", nil, infra.KindDuplicateKey)
		}
	}
	s.lockers[l.ID()] = l.Clone()
	return nil
}

func (s *LockerStore) Update(_ context.Context, l *locker.Locker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lockers[l.ID()]; !ok {
		return infra.WrapRepoErr("locker not found", nil, infra.KindNotFound)
	}
	s.lockers[l.ID()] = l.Clone()
	return nil
}

func (s *LockerStore) FindByID(_ context.Context, id uuid.UUID) (*locker.Locker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lockers[id]
	if !ok {
		return nil, infra.WrapRepoErr("locker not found", nil, infra.KindNotFound)
	}
	return l.Clone(), nil
}

func (s *LockerStore) List(ctx context.Context) ([]*locker.Locker, error) {
	return s.ListByStatus(ctx)
}

// ListByStatus with no statuses lists every locker.
func (s *LockerStore) ListByStatus(_ context.Context, statuses ...locker.Status) ([]*locker.Locker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*locker.Locker, 0, len(s.lockers))
	for _, l := range s.lockers {
		if len(statuses) == 0 || slices.Contains(statuses, l.Status()) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out, nil
}
