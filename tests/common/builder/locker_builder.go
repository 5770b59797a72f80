//go:build unit || e2e

package builder

import (
	"time"

	"book-locker/internal/domain/locker"

	"github.com/google/uuid"
)

type LockerBuilder struct {
	snap locker.Snapshot
}

func NewLockerBuilder() *LockerBuilder {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	return &LockerBuilder{snap: locker.Snapshot{
		ID:        uuid.New(),
		Number:    1,
		Status:    locker.StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *LockerBuilder) With(mutate func(*locker.Snapshot)) *LockerBuilder {
	mutate(&b.snap)
	return b
}

func (b *LockerBuilder) WithID(id uuid.UUID) *LockerBuilder {
	b.snap.ID = id
	return b
}

func (b *LockerBuilder) WithNumber(n int) *LockerBuilder {
	b.snap.Number = n
	return b
}

func (b *LockerBuilder) Open(at time.Time) *LockerBuilder {
	b.snap.Status = locker.StatusOpen
	b.snap.OpenedAt = &at
	return b
}

func (b *LockerBuilder) Occupied(reservationID uuid.UUID) *LockerBuilder {
	b.snap.Status = locker.StatusOccupied
	b.snap.ReservationID = &reservationID
	return b
}

func (b *LockerBuilder) Faulted(kind locker.FaultKind, at time.Time) *LockerBuilder {
	b.snap.Status = locker.StatusFault
	b.snap.FaultKind = kind
	b.snap.FaultedAt = &at
	return b
}

func (b *LockerBuilder) Disabled() *LockerBuilder {
	b.snap.Status = locker.StatusDisabled
	b.snap.IsBroken = true
	return b
}

func (b *LockerBuilder) Build() *locker.Locker {
	return locker.Reconstruct(b.snap)
}
