package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"book-locker/internal/domain/reservation"
	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationStore struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*reservation.Reservation
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{reservations: make(map[uuid.UUID]*reservation.Reservation)}
}

// Create rejects a second ACTIVE reservation for the same book, like the
// partial unique index of the Postgres schema.
func (s *ReservationStore) Create(_ context.Context, res *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[res.ID()]; ok {
		return infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	for _, other := range s.reservations {
		if other.BookID() == res.BookID() && other.Status() == reservation.StatusActive {
			return errs.Kind(errs.ErrBookAlreadyReserved, "book %s already has an active reservation", res.BookID())
		}
	}
	s.reservations[res.ID()] = res.Clone()
	return nil
}

func (s *ReservationStore) Update(_ context.Context, res *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	s.reservations[res.ID()] = res.Clone()
	return nil
}

func (s *ReservationStore) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return res.Clone(), nil
}

func (s *ReservationStore) ListActive(_ context.Context) ([]*reservation.Reservation, error) {
	return s.filter(func(r *reservation.Reservation) bool {
		return r.Status() == reservation.StatusActive
	}, 0), nil
}

func (s *ReservationStore) ListDue(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	return s.filter(func(r *reservation.Reservation) bool {
		return r.IsDue(now)
	}, limit), nil
}

func (s *ReservationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*reservation.Reservation, error) {
	return s.filter(func(r *reservation.Reservation) bool {
		return r.UserID() == userID
	}, 0), nil
}

// filter returns clones ordered by expiry, then id.
func (s *ReservationStore) filter(keep func(*reservation.Reservation) bool, limit int) []*reservation.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*reservation.Reservation, 0)
	for _, r := range s.reservations {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExpiresAt().Equal(out[j].ExpiresAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].ExpiresAt().Before(out[j].ExpiresAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
