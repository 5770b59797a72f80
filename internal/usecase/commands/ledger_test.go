//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"book-locker/internal/domain/point"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/commands"
	"book-locker/tests/common/builder"
	sharedmock "book-locker/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPointLedger_Holds(t *testing.T) {
	ctx := context.Background()

	t.Run("holds, settles and records the spend", func(t *testing.T) {
		e := newEngine(t)
		userID, resID := uuid.New(), uuid.New()
		e.credit(t, userID, 1000)

		_, err := e.ledger.PlaceHold(ctx, userID, 300, resID)
		require.NoError(t, err)
		total, held, available := e.balance(t, userID)
		assert.Equal(t, []int64{1000, 300, 700}, []int64{total, held, available})

		hold, err := e.ledger.Settle(ctx, userID, resID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), hold.Amount)
		total, held, available = e.balance(t, userID)
		assert.Equal(t, []int64{700, 0, 700}, []int64{total, held, available})

		history, err := e.accounts.ListTransactions(ctx, userID, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		types := []point.TransactionType{history[0].Type, history[1].Type}
		assert.ElementsMatch(t, []point.TransactionType{point.TransactionEarn, point.TransactionSpend}, types)
	})

	t.Run("release restores availability", func(t *testing.T) {
		e := newEngine(t)
		userID, resID := uuid.New(), uuid.New()
		e.credit(t, userID, 500)

		_, err := e.ledger.PlaceHold(ctx, userID, 500, resID)
		require.NoError(t, err)
		_, err = e.ledger.Release(ctx, userID, resID)
		require.NoError(t, err)

		total, held, available := e.balance(t, userID)
		assert.Equal(t, []int64{500, 0, 500}, []int64{total, held, available})
	})

	t.Run("insufficient points", func(t *testing.T) {
		e := newEngine(t)
		userID := uuid.New()
		e.credit(t, userID, 100)

		_, err := e.ledger.PlaceHold(ctx, userID, 300, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrInsufficientPoints))
	})

	t.Run("settle and release without a hold", func(t *testing.T) {
		e := newEngine(t)
		userID := uuid.New()
		e.credit(t, userID, 100)

		_, err := e.ledger.Settle(ctx, userID, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrHoldNotFound))
		_, err = e.ledger.Release(ctx, userID, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrHoldNotFound))

		total, _, _ := e.balance(t, userID)
		assert.Equal(t, int64(100), total)
	})

	t.Run("concurrent holds never overdraw", func(t *testing.T) {
		e := newEngine(t)
		userID := uuid.New()
		e.credit(t, userID, 1000)

		var (
			wg           sync.WaitGroup
			succeeded    atomic.Int32
			insufficient atomic.Int32
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.ledger.PlaceHold(ctx, userID, 300, uuid.New())
				switch {
				case err == nil:
					succeeded.Add(1)
				case errs.Is(err, errs.ErrInsufficientPoints):
					insufficient.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(3), succeeded.Load())
		assert.Equal(t, int32(17), insufficient.Load())
		_, held, available := e.balance(t, userID)
		assert.Equal(t, int64(900), held)
		assert.Equal(t, int64(100), available)
	})
}

func TestPointLedger_Credit(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	userID := uuid.New()

	bal, err := e.ledger.Credit(ctx, userID, 250, "book donation")
	require.NoError(t, err)
	assert.Equal(t, int64(250), bal.Total)
	assert.Equal(t, int64(250), bal.Earned)

	_, err = e.ledger.Credit(ctx, uuid.Nil, 10, "")
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	_, err = e.ledger.Credit(ctx, userID, -5, "")
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))

	history, err := e.accounts.ListTransactions(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "book donation", history[0].Reason)
}

func TestPointLedger_StoreInteraction(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated hold is not saved twice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := sharedmock.NewMockAccountStore(ctrl)
		ledger := commands.NewPointLedger(store, clock.NewMockClock(start), discardLogger())

		userID, resID := uuid.New(), uuid.New()
		acc := builder.NewAccountBuilder().WithUser(userID).WithPoints(1000).WithHold(resID, 300).Build()

		store.EXPECT().Get(gomock.Any(), userID).Return(acc, nil).Times(1)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		hold, err := ledger.PlaceHold(ctx, userID, 300, resID)
		require.NoError(t, err)
		assert.Equal(t, resID, hold.ReservationID)
	})

	t.Run("save failure surfaces as an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := sharedmock.NewMockAccountStore(ctrl)
		ledger := commands.NewPointLedger(store, clock.NewMockClock(start), discardLogger())

		userID := uuid.New()
		saveErr := errors.New("connection reset")
		store.EXPECT().Get(gomock.Any(), userID).
			Return(builder.NewAccountBuilder().WithUser(userID).WithPoints(1000).Build(), nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

		_, err := ledger.PlaceHold(ctx, userID, 300, uuid.New())
		assert.ErrorIs(t, err, saveErr)
	})

	t.Run("settle appends a spend entry for the hold", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := sharedmock.NewMockAccountStore(ctrl)
		ledger := commands.NewPointLedger(store, clock.NewMockClock(start), discardLogger())

		userID, resID := uuid.New(), uuid.New()
		store.EXPECT().Get(gomock.Any(), userID).
			Return(builder.NewAccountBuilder().WithUser(userID).WithPoints(1000).WithHold(resID, 300).Build(), nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, acc *point.Account, entries ...point.Transaction) error {
				require.Len(t, entries, 1)
				assert.Equal(t, int64(-300), entries[0].Change)
				assert.Equal(t, resID, *entries[0].ReservationID)
				assert.Equal(t, int64(700), acc.Total())
				return nil
			})

		_, err := ledger.Settle(ctx, userID, resID)
		require.NoError(t, err)
	})
}
