//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/reservation"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"
	"book-locker/tests/common/builder"
	sharedmock "book-locker/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLockerCommands_Provision(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	l, err := e.lockers.Provision(ctx, admin, 1)
	require.NoError(t, err)
	assert.Equal(t, locker.StatusAvailable, l.Status())
	assert.Equal(t, locker.EventProvision, e.lastLog(t, l.ID()).EventType)

	_, err = e.lockers.Provision(ctx, member(), 2)
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))

	_, err = e.lockers.Provision(ctx, admin, 1)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument), "duplicate compartment number")

	_, err = e.lockers.Provision(ctx, admin, 0)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestLockerCommands_DoorCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("every transition is logged", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]
		actor := member()

		_, err := e.lockers.Open(ctx, actor, l.ID())
		require.NoError(t, err)
		closed, err := e.lockers.Close(ctx, actor, l.ID(), true)
		require.NoError(t, err)
		assert.Equal(t, locker.StatusOccupied, closed.Status())

		entries, err := e.logs.ListByLocker(ctx, l.ID(), 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, locker.EventClose, entries[0].EventType)
		assert.Equal(t, "OPEN->OCCUPIED", entries[0].Detail)
		assert.Equal(t, locker.EventOpen, entries[1].EventType)
		assert.Equal(t, actor.ID, entries[1].UserID)
		assert.Equal(t, locker.EventProvision, entries[2].EventType)
	})

	t.Run("rejected transition is logged and leaves state", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]

		_, err := e.lockers.Close(ctx, member(), l.ID(), false)
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

		entry := e.lastLog(t, l.ID())
		assert.Equal(t, locker.EventClose, entry.EventType)
		assert.Equal(t, locker.ResultRejected, entry.ResultStatus)
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, l.ID()).Status())
	})

	t.Run("unknown locker", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.lockers.Open(ctx, member(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestLockerCommands_OpenAssigned(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	owner := member()

	res := builder.NewReservationBuilder().WithUser(owner.ID).Build()
	l := builder.NewLockerBuilder().Occupied(res.ID()).Build()
	require.NoError(t, e.reservations.Create(ctx, res))
	require.NoError(t, e.lockerStore.Create(ctx, l))

	_, err := e.lockers.Open(ctx, member(), l.ID())
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition), "stranger cannot open an assigned compartment")

	opened, err := e.lockers.Open(ctx, owner, l.ID())
	require.NoError(t, err)
	assert.Equal(t, locker.StatusOpen, opened.Status())

	_, err = e.lockers.Close(ctx, owner, l.ID(), true)
	require.NoError(t, err)
	_, err = e.lockers.Open(ctx, admin, l.ID())
	require.NoError(t, err, "admins open any assigned compartment")
}

func TestLockerCommands_PickupDoorCycle(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.allowNotifications()
	l := e.provision(t, 1)[0]
	owner := member()
	e.credit(t, owner.ID, 100)

	res, err := e.registry.ReserveBook(ctx, owner.ID, e.book(t, 40))
	require.NoError(t, err)

	_, err = e.lockers.Open(ctx, owner, l.ID())
	require.NoError(t, err)
	closed, err := e.lockers.Close(ctx, owner, l.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, locker.StatusOccupied, closed.Status(), "assignment outlives the door cycle")
	assert.True(t, closed.AssignedTo(res.ID()))
	assert.Equal(t, "OPEN->OCCUPIED", e.lastLog(t, l.ID()).Detail)

	stored, err := e.reservations.FindByID(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusActive, stored.Status())

	_, err = e.lockers.Open(ctx, member(), l.ID())
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition), "stranger cannot open an assigned compartment")
	assert.Equal(t, locker.StatusOccupied, e.lockerState(t, l.ID()).Status())

	_, err = e.registry.Fulfill(ctx, owner, res.ID())
	require.NoError(t, err)
	assert.Equal(t, locker.StatusAvailable, e.lockerState(t, l.ID()).Status())
	assert.Nil(t, e.lockerState(t, l.ID()).ReservationID())
}

func TestLockerCommands_ReportFault(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	l := e.provision(t, 1)[0]

	_, err := e.lockers.ReportFault(ctx, member(), l.ID(), locker.FaultSensor)
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	assert.Equal(t, locker.ResultRejected, e.lastLog(t, l.ID()).ResultStatus)

	_, err = e.lockers.ReportFault(ctx, device, l.ID(), locker.FaultKind("SMOKE"))
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))

	e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert shared.Alert) error {
			assert.Equal(t, shared.AlertLockerFault, alert.Kind)
			assert.Equal(t, "SENSOR", alert.FaultKind)
			require.NotNil(t, alert.LockerID)
			assert.Equal(t, l.ID(), *alert.LockerID)
			return nil
		}).Times(1)

	faulted, err := e.lockers.ReportFault(ctx, device, l.ID(), locker.FaultSensor)
	require.NoError(t, err)
	assert.Equal(t, locker.StatusFault, faulted.Status())
	assert.Equal(t, locker.FaultSensor, faulted.FaultKind())

	refined, err := e.lockers.ReportFault(ctx, device, l.ID(), locker.FaultDoorStuck)
	require.NoError(t, err, "a repeat report only changes the kind and pages nobody")
	assert.Equal(t, locker.FaultDoorStuck, refined.FaultKind())

	_, err = e.lockers.Open(ctx, member(), l.ID())
	assert.True(t, errs.Is(err, errs.ErrLockerFault))
}

func TestLockerCommands_FaultRecovery(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	l := e.provision(t, 1)[0]
	e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := e.lockers.ReportFault(ctx, device, l.ID(), locker.FaultDoorStuck)
	require.NoError(t, err)

	_, err = e.lockers.AcknowledgeFault(ctx, member(), l.ID())
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))

	acked, err := e.lockers.AcknowledgeFault(ctx, admin, l.ID())
	require.NoError(t, err)
	assert.True(t, acked.FaultAcknowledged())

	e.clock.Add(time.Hour)
	escalated, err := e.lockers.SweepEscalation(ctx, l.ID())
	require.NoError(t, err)
	assert.False(t, escalated, "acknowledged faults are not escalated")

	reset, err := e.lockers.Reset(ctx, admin, l.ID())
	require.NoError(t, err)
	assert.Equal(t, locker.StatusAvailable, reset.Status())
	assert.Equal(t, locker.EventReset, e.lastLog(t, l.ID()).EventType)
}

func TestLockerCommands_DoorTimeoutEscalation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	l := e.provision(t, 1)[0]

	_, err := e.lockers.Open(ctx, member(), l.ID())
	require.NoError(t, err)

	e.clock.Add(4 * time.Minute)
	moved, err := e.lockers.SweepDoorTimeout(ctx, l.ID())
	require.NoError(t, err)
	assert.False(t, moved)

	faultAlert := e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert shared.Alert) error {
			assert.Equal(t, shared.AlertLockerFault, alert.Kind)
			assert.Equal(t, "DOOR_STUCK", alert.FaultKind)
			require.NotNil(t, alert.LockerID)
			assert.Equal(t, l.ID(), *alert.LockerID)
			return nil
		}).Times(1)

	e.clock.Add(time.Minute)
	moved, err = e.lockers.SweepDoorTimeout(ctx, l.ID())
	require.NoError(t, err)
	require.True(t, moved)

	faulted := e.lockerState(t, l.ID())
	assert.Equal(t, locker.StatusFault, faulted.Status())
	assert.Equal(t, locker.FaultDoorStuck, faulted.FaultKind())
	entry := e.lastLog(t, l.ID())
	assert.Equal(t, locker.EventDoorTimeout, entry.EventType)
	assert.Equal(t, uuid.Nil, entry.UserID)

	e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert shared.Alert) error {
			assert.Equal(t, shared.AlertLockerDisabled, alert.Kind)
			require.NotNil(t, alert.LockerID)
			assert.Equal(t, l.ID(), *alert.LockerID)
			return nil
		}).Times(1).After(faultAlert)

	e.clock.Add(5 * time.Minute)
	escalated, err := e.lockers.SweepEscalation(ctx, l.ID())
	require.NoError(t, err)
	require.True(t, escalated)
	assert.Equal(t, locker.StatusDisabled, e.lockerState(t, l.ID()).Status())

	e.clock.Add(time.Hour)
	escalated, err = e.lockers.SweepEscalation(ctx, l.ID())
	require.NoError(t, err)
	assert.False(t, escalated, "alert is raised once")
}

func TestLockerCommands_Heartbeat(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	l := e.provision(t, 1)[0]

	assert.True(t, errs.Is(e.lockers.Heartbeat(ctx, member(), l.ID()), errs.ErrUnauthorized))
	require.NoError(t, e.lockers.Heartbeat(ctx, device, l.ID()))

	e.clock.Add(time.Minute)
	lost, err := e.lockers.SweepHeartbeat(ctx, l.ID())
	require.NoError(t, err)
	assert.False(t, lost)

	e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert shared.Alert) error {
			assert.Equal(t, shared.AlertLockerFault, alert.Kind)
			assert.Equal(t, "NETWORK", alert.FaultKind)
			return nil
		}).Times(1)

	e.clock.Add(time.Minute)
	lost, err = e.lockers.SweepHeartbeat(ctx, l.ID())
	require.NoError(t, err)
	require.True(t, lost)

	faulted := e.lockerState(t, l.ID())
	assert.Equal(t, locker.StatusFault, faulted.Status())
	assert.Equal(t, locker.FaultNetwork, faulted.FaultKind())

	e.clock.Add(time.Hour)
	lost, err = e.lockers.SweepHeartbeat(ctx, l.ID())
	require.NoError(t, err)
	assert.False(t, lost, "a faulted compartment is not faulted again")
}

func TestLockerCommands_EmergencyOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("admin opens a disabled locker with a recorded reason", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]
		_, err := e.lockers.Disable(ctx, admin, l.ID())
		require.NoError(t, err)

		opened, err := e.lockers.EmergencyOpen(ctx, admin, l.ID(), "student's bag trapped")
		require.NoError(t, err)
		assert.Equal(t, locker.StatusOpen, opened.Status())

		entry := e.lastLog(t, l.ID())
		assert.Equal(t, locker.EventEmergencyOpen, entry.EventType)
		assert.Equal(t, locker.ResultSuccess, entry.ResultStatus)
		assert.Equal(t, admin.ID, entry.UserID)
		assert.Equal(t, "student's bag trapped", entry.Reason)
		assert.Equal(t, "DISABLED->OPEN", entry.Detail)
	})

	t.Run("non-admin attempt is rejected and logged", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]
		actor := member()

		_, err := e.lockers.EmergencyOpen(ctx, actor, l.ID(), "let me in")
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))

		entry := e.lastLog(t, l.ID())
		assert.Equal(t, locker.EventEmergencyOpen, entry.EventType)
		assert.Equal(t, locker.ResultRejected, entry.ResultStatus)
		assert.Equal(t, actor.ID, entry.UserID)
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, l.ID()).Status())
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]

		_, err := e.lockers.EmergencyOpen(ctx, admin, l.ID(), "  ")
		assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, l.ID()).Status())
	})

	t.Run("unwritable log aborts the open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logs := sharedmock.NewMockSystemLogStore(ctrl)
		logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).AnyTimes()

		e := newEngine(t, withLogStore(logs))
		l := builder.NewLockerBuilder().Faulted(locker.FaultDoorStuck, start).Build()
		require.NoError(t, e.lockerStore.Create(ctx, l))

		_, err := e.lockers.EmergencyOpen(ctx, admin, l.ID(), "fire drill")
		assert.True(t, errs.Is(err, errs.ErrLogWriteFailed))
		assert.Equal(t, locker.StatusFault, e.lockerState(t, l.ID()).Status())
	})

	t.Run("routine transitions survive log failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logs := sharedmock.NewMockSystemLogStore(ctrl)
		logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).AnyTimes()

		e := newEngine(t, withLogStore(logs))
		l := e.provision(t, 1)[0]

		opened, err := e.lockers.Open(ctx, member(), l.ID())
		require.NoError(t, err)
		assert.Equal(t, locker.StatusOpen, opened.Status())
	})
}

func TestLockerCommands_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("picks the lowest free compartment", func(t *testing.T) {
		e := newEngine(t)
		lockers := e.provision(t, 3, 1, 2)
		_, err := e.lockers.Disable(ctx, admin, lockers[1].ID())
		require.NoError(t, err)

		resID := uuid.New()
		assigned, err := e.lockers.Assign(ctx, uuid.New(), resID)
		require.NoError(t, err)
		assert.Equal(t, 2, assigned.Number())
		assert.True(t, assigned.AssignedTo(resID))
	})

	t.Run("no free compartment", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]
		_, err := e.lockers.Assign(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = e.lockers.Assign(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNoLockerAvailable))
		assert.Equal(t, locker.StatusOccupied, e.lockerState(t, l.ID()).Status())
	})

	t.Run("concurrent assigns never share a compartment", func(t *testing.T) {
		e := newEngine(t)
		e.provision(t, 1, 2)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			won  = map[uuid.UUID]int{}
			none int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l, err := e.lockers.Assign(ctx, uuid.New(), uuid.New())
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					none++
					return
				}
				won[l.ID()]++
			}()
		}
		wg.Wait()

		assert.Len(t, won, 2)
		for _, n := range won {
			assert.Equal(t, 1, n)
		}
		assert.Equal(t, 8, none)
	})

	t.Run("release by another reservation is rejected", func(t *testing.T) {
		e := newEngine(t)
		e.provision(t, 1)
		resID := uuid.New()
		assigned, err := e.lockers.Assign(ctx, uuid.New(), resID)
		require.NoError(t, err)

		err = e.lockers.Release(ctx, uuid.New(), assigned.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

		require.NoError(t, e.lockers.Release(ctx, uuid.New(), assigned.ID(), resID))
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, assigned.ID()).Status())
	})
}
