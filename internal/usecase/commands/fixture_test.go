//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/user"
	"book-locker/internal/infra/memstore"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/config"
	"book-locker/internal/usecase/commands"
	"book-locker/internal/usecase/shared"
	sharedmock "book-locker/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	start  = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	timing = config.EngineConfig{
		HoldWindow:       24 * time.Hour,
		DoorTimeout:      5 * time.Minute,
		FaultEscalation:  5 * time.Minute,
		SweepInterval:    time.Minute,
		HeartbeatTimeout: 2 * time.Minute,
	}
	admin  = user.NewActor(uuid.New(), user.RoleAdmin)
	device = user.NewActor(uuid.New(), user.RoleDevice)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func member() user.Actor {
	return user.NewActor(uuid.New(), user.RoleMember)
}

// engine wires the real commands to in-memory stores. Notifications and
// alerts go to gomock doubles so tests can assert on them.
type engine struct {
	clock        *clock.MockClock
	accounts     *memstore.AccountStore
	reservations *memstore.ReservationStore
	lockerStore  *memstore.LockerStore
	logs         *memstore.SystemLogStore
	catalog      *memstore.Catalog
	notifier     *sharedmock.MockNotifier
	alerter      *sharedmock.MockAlerter

	ledger   commands.PointLedger
	lockers  commands.LockerCommands
	registry commands.ReservationCommands
}

type engineOption func(*engineDeps)

type engineDeps struct {
	logs         shared.SystemLogStore
	reservations shared.ReservationStore
}

func withLogStore(logs shared.SystemLogStore) engineOption {
	return func(d *engineDeps) { d.logs = logs }
}

// withReservationStore lets a test wrap the in-memory reservation store the
// commands write through. The engine's own reservations field stays readable.
func withReservationStore(wrap func(*memstore.ReservationStore) shared.ReservationStore) engineOption {
	return func(d *engineDeps) {
		if mem, ok := d.reservations.(*memstore.ReservationStore); ok {
			d.reservations = wrap(mem)
		}
	}
}

func newEngine(t *testing.T, opts ...engineOption) *engine {
	t.Helper()
	ctrl := gomock.NewController(t)

	e := &engine{
		clock:        clock.NewMockClock(start),
		accounts:     memstore.NewAccountStore(),
		reservations: memstore.NewReservationStore(),
		lockerStore:  memstore.NewLockerStore(),
		logs:         memstore.NewSystemLogStore(),
		catalog:      memstore.NewCatalog(),
		notifier:     sharedmock.NewMockNotifier(ctrl),
		alerter:      sharedmock.NewMockAlerter(ctrl),
	}
	deps := engineDeps{logs: e.logs, reservations: e.reservations}
	for _, opt := range opts {
		opt(&deps)
	}

	logger := discardLogger()
	e.ledger = commands.NewPointLedger(e.accounts, e.clock, logger)
	e.lockers = commands.NewLockerCommands(e.lockerStore, deps.reservations, deps.logs, e.alerter, e.clock, timing, logger)
	e.registry = commands.NewReservationCommands(
		deps.reservations, e.catalog, e.ledger, e.lockers, e.notifier, e.alerter, e.clock, timing, logger,
	)
	return e
}

// allowNotifications accepts any number of user notifications.
func (e *engine) allowNotifications() {
	e.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (e *engine) provision(t *testing.T, numbers ...int) []*locker.Locker {
	t.Helper()
	out := make([]*locker.Locker, 0, len(numbers))
	for _, n := range numbers {
		l, err := e.lockers.Provision(context.Background(), admin, n)
		require.NoError(t, err)
		out = append(out, l)
	}
	return out
}

func (e *engine) credit(t *testing.T, userID uuid.UUID, amount int64) {
	t.Helper()
	_, err := e.ledger.Credit(context.Background(), userID, amount, "seed")
	require.NoError(t, err)
}

func (e *engine) book(t *testing.T, price int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, e.catalog.PutBook(context.Background(), id, "Linear Algebra", price))
	return id
}

func (e *engine) balance(t *testing.T, userID uuid.UUID) (total, held, available int64) {
	t.Helper()
	acc, err := e.accounts.Get(context.Background(), userID)
	require.NoError(t, err)
	b := acc.Balance()
	return b.Total, b.Held, b.Available
}

func (e *engine) lockerState(t *testing.T, id uuid.UUID) *locker.Locker {
	t.Helper()
	l, err := e.lockerStore.FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

// lastLog returns the newest system log entry of a locker.
func (e *engine) lastLog(t *testing.T, id uuid.UUID) locker.LogEntry {
	t.Helper()
	entries, err := e.logs.ListByLocker(context.Background(), id, 1)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[0]
}
