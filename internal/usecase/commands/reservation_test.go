//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/reservation"
	"book-locker/internal/domain/user"
	"book-locker/internal/infra/memstore"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"
	"book-locker/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReservationCommands_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("holds points and assigns a compartment", func(t *testing.T) {
		e := newEngine(t)
		l := e.provision(t, 1)[0]
		userID := uuid.New()
		e.credit(t, userID, 1000)
		bookID := e.book(t, 300)

		e.notifier.EXPECT().
			Notify(gomock.Any(), userID, shared.NotifyReservationCreated, gomock.Any()).
			Return(nil).Times(1)

		res, err := e.registry.ReserveBook(ctx, userID, bookID)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusActive, res.Status())
		assert.Equal(t, l.ID(), res.LockerID())
		assert.Equal(t, int64(300), res.Price())
		assert.Equal(t, start.Add(timing.HoldWindow), res.ExpiresAt())

		total, held, available := e.balance(t, userID)
		assert.Equal(t, []int64{1000, 300, 700}, []int64{total, held, available})

		assigned := e.lockerState(t, l.ID())
		assert.Equal(t, locker.StatusOccupied, assigned.Status())
		assert.True(t, assigned.AssignedTo(res.ID()))

		stored, err := e.reservations.FindByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusActive, stored.Status())
	})

	t.Run("unknown book", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.registry.ReserveBook(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("invalid input", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.registry.Reserve(ctx, uuid.Nil, uuid.New(), 100)
		assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
		_, err = e.registry.Reserve(ctx, uuid.New(), uuid.New(), -1)
		assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("fourth reservation exceeds the balance", func(t *testing.T) {
		e := newEngine(t)
		e.allowNotifications()
		e.provision(t, 1, 2, 3, 4)
		userID := uuid.New()
		e.credit(t, userID, 1000)

		for i := 0; i < 3; i++ {
			_, err := e.registry.Reserve(ctx, userID, uuid.New(), 300)
			require.NoError(t, err)
		}

		fourth := uuid.New()
		_, err := e.registry.Reserve(ctx, userID, fourth, 300)
		assert.True(t, errs.Is(err, errs.ErrInsufficientPoints))

		_, held, available := e.balance(t, userID)
		assert.Equal(t, int64(900), held)
		assert.Equal(t, int64(100), available)

		other := uuid.New()
		e.credit(t, other, 300)
		_, err = e.registry.Reserve(ctx, other, fourth, 300)
		require.NoError(t, err, "failed reservation must not keep the book claimed")
	})

	t.Run("missing compartment undoes hold and claim", func(t *testing.T) {
		e := newEngine(t)
		e.allowNotifications()
		userID := uuid.New()
		e.credit(t, userID, 1000)
		bookID := uuid.New()

		_, err := e.registry.Reserve(ctx, userID, bookID, 300)
		assert.True(t, errs.Is(err, errs.ErrNoLockerAvailable))

		total, held, available := e.balance(t, userID)
		assert.Equal(t, []int64{1000, 0, 1000}, []int64{total, held, available})

		e.provision(t, 1)
		_, err = e.registry.Reserve(ctx, userID, bookID, 300)
		require.NoError(t, err)
	})

	t.Run("one winner per book under contention", func(t *testing.T) {
		e := newEngine(t)
		e.allowNotifications()
		e.provision(t, 1, 2, 3, 4, 5)
		bookID := uuid.New()

		users := make([]uuid.UUID, 10)
		for i := range users {
			users[i] = uuid.New()
			e.credit(t, users[i], 500)
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			winners  []uuid.UUID
			rejected int
		)
		for _, u := range users {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.registry.Reserve(ctx, u, bookID, 300)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					winners = append(winners, u)
				case errs.Is(err, errs.ErrBookAlreadyReserved):
					rejected++
				}
			}()
		}
		wg.Wait()

		require.Len(t, winners, 1)
		assert.Equal(t, 9, rejected)
		for _, u := range users {
			_, held, _ := e.balance(t, u)
			if u == winners[0] {
				assert.Equal(t, int64(300), held)
			} else {
				assert.Zero(t, held)
			}
		}

		active, err := e.reservations.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})
}

func TestReservationCommands_Fulfill(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*engine, uuid.UUID, *reservation.Reservation) {
		e := newEngine(t)
		e.allowNotifications()
		e.provision(t, 1)
		userID := uuid.New()
		e.credit(t, userID, 1000)
		res, err := e.registry.Reserve(ctx, userID, uuid.New(), 300)
		require.NoError(t, err)
		return e, userID, res
	}

	t.Run("settles points and frees the compartment", func(t *testing.T) {
		e, userID, res := setup(t)
		e.clock.Add(time.Hour)

		done, err := e.registry.Fulfill(ctx, device, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusFulfilled, done.Status())

		total, held, available := e.balance(t, userID)
		assert.Equal(t, []int64{700, 0, 700}, []int64{total, held, available})
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, res.LockerID()).Status())

		stored, err := e.reservations.FindByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusFulfilled, stored.Status())
		require.NotNil(t, stored.ClosedBy())
		assert.Equal(t, device.ID, *stored.ClosedBy())
	})

	t.Run("second fulfill is rejected without a second deduction", func(t *testing.T) {
		e, userID, res := setup(t)
		owner := user.NewActor(userID, user.RoleMember)

		_, err := e.registry.Fulfill(ctx, owner, res.ID())
		require.NoError(t, err)
		_, err = e.registry.Fulfill(ctx, owner, res.ID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

		total, _, _ := e.balance(t, userID)
		assert.Equal(t, int64(700), total)
	})

	t.Run("stranger cannot fulfill", func(t *testing.T) {
		e, userID, res := setup(t)

		_, err := e.registry.Fulfill(ctx, member(), res.ID())
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
		_, held, _ := e.balance(t, userID)
		assert.Equal(t, int64(300), held)
	})

	t.Run("fulfill after the hold window is rejected", func(t *testing.T) {
		e, userID, res := setup(t)
		e.clock.Add(timing.HoldWindow)

		_, err := e.registry.Fulfill(ctx, admin, res.ID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
		_, held, _ := e.balance(t, userID)
		assert.Equal(t, int64(300), held)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		e, _, _ := setup(t)
		_, err := e.registry.Fulfill(ctx, admin, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("concurrent fulfill and cancel settle exactly once", func(t *testing.T) {
		e, userID, res := setup(t)
		owner := user.NewActor(userID, user.RoleMember)

		var (
			wg        sync.WaitGroup
			fulfilled bool
			cancelled bool
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.registry.Fulfill(ctx, owner, res.ID())
			fulfilled = err == nil
		}()
		go func() {
			defer wg.Done()
			_, err := e.registry.Cancel(ctx, owner, res.ID())
			cancelled = err == nil
		}()
		wg.Wait()

		require.NotEqual(t, fulfilled, cancelled, "exactly one transition wins")
		total, held, _ := e.balance(t, userID)
		assert.Zero(t, held)
		if fulfilled {
			assert.Equal(t, int64(700), total)
		} else {
			assert.Equal(t, int64(1000), total)
		}
	})
}

func TestReservationCommands_Cancel(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.allowNotifications()
	e.provision(t, 1)
	userID := uuid.New()
	e.credit(t, userID, 1000)
	bookID := uuid.New()

	res, err := e.registry.Reserve(ctx, userID, bookID, 300)
	require.NoError(t, err)

	_, err = e.registry.Cancel(ctx, member(), res.ID())
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	_, err = e.registry.Cancel(ctx, device, res.ID())
	assert.True(t, errs.Is(err, errs.ErrUnauthorized), "devices only fulfill")

	cancelled, err := e.registry.Cancel(ctx, user.NewActor(userID, user.RoleMember), res.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, cancelled.Status())

	total, held, _ := e.balance(t, userID)
	assert.Equal(t, int64(1000), total)
	assert.Zero(t, held)
	assert.Equal(t, locker.StatusAvailable, e.lockerState(t, res.LockerID()).Status())

	_, err = e.registry.Reserve(ctx, uuid.New(), bookID, 0)
	require.NoError(t, err, "cancelled reservation frees the book")
}

func TestReservationCommands_Expire(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.allowNotifications()
	e.provision(t, 1)
	userID := uuid.New()
	e.credit(t, userID, 1000)

	res, err := e.registry.Reserve(ctx, userID, uuid.New(), 300)
	require.NoError(t, err)

	e.clock.Add(timing.HoldWindow - time.Second)
	expired, err := e.registry.Expire(ctx, res.ID())
	require.NoError(t, err)
	assert.False(t, expired, "not due yet")

	e.clock.Add(time.Second)
	expired, err = e.registry.Expire(ctx, res.ID())
	require.NoError(t, err)
	require.True(t, expired)

	stored, err := e.reservations.FindByID(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusExpired, stored.Status())
	total, held, _ := e.balance(t, userID)
	assert.Equal(t, int64(1000), total)
	assert.Zero(t, held)
	assert.Equal(t, locker.StatusAvailable, e.lockerState(t, res.LockerID()).Status())

	expired, err = e.registry.Expire(ctx, res.ID())
	require.NoError(t, err)
	assert.False(t, expired, "already expired")

	_, err = e.registry.Cancel(ctx, user.NewActor(userID, user.RoleMember), res.ID())
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
}

// pausingReservations parks the first Update, which runs while the
// reservation lock is held, until resume is closed.
type pausingReservations struct {
	*memstore.ReservationStore
	paused chan struct{}
	resume chan struct{}
	once   sync.Once
}

func pauseFirstUpdate(p *pausingReservations) engineOption {
	p.paused = make(chan struct{})
	p.resume = make(chan struct{})
	return withReservationStore(func(mem *memstore.ReservationStore) shared.ReservationStore {
		p.ReservationStore = mem
		return p
	})
}

func (p *pausingReservations) Update(ctx context.Context, res *reservation.Reservation) error {
	p.once.Do(func() {
		close(p.paused)
		<-p.resume
	})
	return p.ReservationStore.Update(ctx, res)
}

type transitionResult struct {
	res *reservation.Reservation
	err error
}

func TestReservationCommands_CancelExpireRace(t *testing.T) {
	ctx := context.Background()

	t.Run("expire skips a reservation being cancelled", func(t *testing.T) {
		store := &pausingReservations{}
		e := newEngine(t, pauseFirstUpdate(store))
		e.allowNotifications()
		e.provision(t, 1)
		owner := member()
		e.credit(t, owner.ID, 1000)

		res, err := e.registry.Reserve(ctx, owner.ID, uuid.New(), 300)
		require.NoError(t, err)

		cancelled := make(chan transitionResult, 1)
		go func() {
			r, err := e.registry.Cancel(ctx, owner, res.ID())
			cancelled <- transitionResult{res: r, err: err}
		}()
		<-store.paused

		e.clock.Add(timing.HoldWindow)
		expired, err := e.registry.Expire(ctx, res.ID())
		require.NoError(t, err)
		assert.False(t, expired, "cancel holds the reservation")

		close(store.resume)
		got := <-cancelled
		require.NoError(t, got.err)
		assert.Equal(t, reservation.StatusCancelled, got.res.Status())

		stored, err := e.reservations.FindByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, stored.Status())

		expired, err = e.registry.Expire(ctx, res.ID())
		require.NoError(t, err)
		assert.False(t, expired, "cancelled reservations never expire")

		total, held, available := e.balance(t, owner.ID)
		assert.Equal(t, int64(1000), total)
		assert.Zero(t, held)
		assert.Equal(t, int64(1000), available)
		assert.Equal(t, locker.StatusAvailable, e.lockerState(t, res.LockerID()).Status())
	})

	t.Run("cancel after a winning expire is rejected", func(t *testing.T) {
		store := &pausingReservations{}
		e := newEngine(t, pauseFirstUpdate(store))
		e.allowNotifications()
		e.provision(t, 1)
		owner := member()
		e.credit(t, owner.ID, 1000)

		res, err := e.registry.Reserve(ctx, owner.ID, uuid.New(), 300)
		require.NoError(t, err)
		e.clock.Add(timing.HoldWindow)

		expired := make(chan bool, 1)
		go func() {
			ok, err := e.registry.Expire(ctx, res.ID())
			assert.NoError(t, err)
			expired <- ok
		}()
		<-store.paused

		cancelled := make(chan transitionResult, 1)
		go func() {
			r, err := e.registry.Cancel(ctx, owner, res.ID())
			cancelled <- transitionResult{res: r, err: err}
		}()

		close(store.resume)
		assert.True(t, <-expired)
		got := <-cancelled
		assert.True(t, errs.Is(got.err, errs.ErrInvalidTransition))
		assert.Nil(t, got.res)

		stored, err := e.reservations.FindByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusExpired, stored.Status())

		total, held, _ := e.balance(t, owner.ID)
		assert.Equal(t, int64(1000), total)
		assert.Zero(t, held)
	})
}

func TestReservationCommands_MissingHold(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	userID := uuid.New()

	res := builder.NewReservationBuilder().WithUser(userID).Build()
	l := builder.NewLockerBuilder().WithID(res.LockerID()).Occupied(res.ID()).Build()
	require.NoError(t, e.reservations.Create(ctx, res))
	require.NoError(t, e.lockerStore.Create(ctx, l))

	e.alerter.EXPECT().Raise(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert shared.Alert) error {
			assert.Equal(t, shared.AlertInvariantBreached, alert.Kind)
			require.NotNil(t, alert.ReservationID)
			assert.Equal(t, res.ID(), *alert.ReservationID)
			return nil
		}).Times(1)

	_, err := e.registry.Fulfill(ctx, user.NewActor(userID, user.RoleMember), res.ID())
	assert.True(t, errs.Is(err, errs.ErrHoldNotFound))

	stored, err := e.reservations.FindByID(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusActive, stored.Status(), "nothing is persisted without the ledger")
}

func TestReservationCommands_Restore(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.provision(t, 1)

	bookID := uuid.New()
	active := builder.NewReservationBuilder().WithBook(bookID).Build()
	closed := builder.NewReservationBuilder().Closed(reservation.StatusFulfilled, start.Add(time.Hour)).Build()
	require.NoError(t, e.reservations.Create(ctx, active))
	require.NoError(t, e.reservations.Create(ctx, closed))

	n, err := e.registry.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	userID := uuid.New()
	e.credit(t, userID, 1000)
	_, err = e.registry.Reserve(ctx, userID, bookID, 300)
	assert.True(t, errs.Is(err, errs.ErrBookAlreadyReserved))

	_, held, _ := e.balance(t, userID)
	assert.Zero(t, held)
}
