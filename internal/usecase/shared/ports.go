package shared

import (
	"context"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/point"
	"book-locker/internal/domain/reservation"
	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by AccountStore.Save when the stored account
// was written by someone else since it was read.
var ErrVersionConflict = errs.New("account version conflict")

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/ports_mock.go -package=sharedmock

type AccountStore interface {
	// Get returns a zero account for users that never held points.
	Get(ctx context.Context, userID uuid.UUID) (*point.Account, error)
	// Save persists the account and appends entries atomically.
	Save(ctx context.Context, acc *point.Account, entries ...point.Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]point.Transaction, error)
}

type ReservationStore interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	Update(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	ListActive(ctx context.Context) ([]*reservation.Reservation, error)
	// ListDue returns ACTIVE reservations with expiresAt <= now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error)
}

type LockerStore interface {
	Create(ctx context.Context, l *locker.Locker) error
	Update(ctx context.Context, l *locker.Locker) error
	FindByID(ctx context.Context, id uuid.UUID) (*locker.Locker, error)
	// List orders by compartment number.
	List(ctx context.Context) ([]*locker.Locker, error)
	ListByStatus(ctx context.Context, statuses ...locker.Status) ([]*locker.Locker, error)
}

type SystemLogStore interface {
	Append(ctx context.Context, entry locker.LogEntry) error
	// ListByLocker returns the newest entries first.
	ListByLocker(ctx context.Context, lockerID uuid.UUID, limit int) ([]locker.LogEntry, error)
}

type Catalog interface {
	BookPrice(ctx context.Context, bookID uuid.UUID) (int64, error)
	BookExists(ctx context.Context, bookID uuid.UUID) (bool, error)
	PutBook(ctx context.Context, bookID uuid.UUID, title string, price int64) error
}

// Notifier delivers user-facing notifications. Callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind NotificationKind, payload map[string]any) error
}

type NotificationKind string

const (
	NotifyReservationCreated   NotificationKind = "reservation_created"
	NotifyReservationFulfilled NotificationKind = "reservation_fulfilled"
	NotifyReservationCancelled NotificationKind = "reservation_cancelled"
	NotifyReservationExpired   NotificationKind = "reservation_expired"
)

// Alerter pages operators.
type Alerter interface {
	Raise(ctx context.Context, alert Alert) error
}

type AlertKind string

const (
	AlertLockerFault       AlertKind = "locker_fault"
	AlertLockerDisabled    AlertKind = "locker_disabled"
	AlertInvariantBreached AlertKind = "invariant_breached"
)

// Alert describes one page. FaultKind is only set on locker_fault alerts.
type Alert struct {
	Kind          AlertKind
	LockerID      *uuid.UUID
	ReservationID *uuid.UUID
	FaultKind     string
	Message       string
	RaisedAt      time.Time
}
