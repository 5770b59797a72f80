// Package memstore keeps engine state in process memory. It backs the
// memory storage driver and the unit tests; every read and write copies the
// aggregate so callers never share mutable state with the store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"book-locker/internal/domain/point"
	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

type AccountStore struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*point.Account
	transactions map[uuid.UUID][]point.Transaction
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts:     make(map[uuid.UUID]*point.Account),
		transactions: make(map[uuid.UUID][]point.Transaction),
	}
}

func (s *AccountStore) Get(_ context.Context, userID uuid.UUID) (*point.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc, ok := s.accounts[userID]; ok {
		return acc.Clone(), nil
	}
	return point.NewAccount(userID), nil
}

func (s *AccountStore) Save(_ context.Context, acc *point.Account, entries ...point.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored int64
	if cur, ok := s.accounts[acc.UserID()]; ok {
		stored = cur.Version()
	}
	if stored != acc.Version() {
		return errs.Mark(
			infra.WrapRepoErr("account was modified concurrently", nil, infra.KindVersionConflict),
			shared.ErrVersionConflict,
		)
	}

	acc.NextVersion()
	s.accounts[acc.UserID()] = acc.Clone()
	s.transactions[acc.UserID()] = append(s.transactions[acc.UserID()], entries...)
	return nil
}

// ListTransactions returns the newest entries first. limit <= 0 means all.
func (s *AccountStore) ListTransactions(_ context.Context, userID uuid.UUID, limit int) ([]point.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.transactions[userID]
	out := make([]point.Transaction, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
