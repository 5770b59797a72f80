package commands

import (
	"context"
	"log/slog"

	"book-locker/internal/domain/point"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/keylock"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ledger.go -destination=../../../tests/mock/commands/ledger_mock.go -package=commandsmock

// PointLedger tracks balances and holds. Mutations for one user are
// serialized; different users never block each other.
type PointLedger interface {
	// PlaceHold is idempotent per reservation.
	PlaceHold(ctx context.Context, userID uuid.UUID, amount int64, reservationID uuid.UUID) (point.Hold, error)
	Settle(ctx context.Context, userID, reservationID uuid.UUID) (point.Hold, error)
	Release(ctx context.Context, userID, reservationID uuid.UUID) (point.Hold, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int64, reason string) (point.Balance, error)
}

type pointLedgerImpl struct {
	accounts shared.AccountStore
	locks    *keylock.Locker
	clock    clock.Clock
	logger   *slog.Logger
}

func NewPointLedger(accounts shared.AccountStore, clk clock.Clock, logger *slog.Logger) PointLedger {
	return &pointLedgerImpl{
		accounts: accounts,
		locks:    keylock.New(),
		clock:    clk,
		logger:   logger.With("component", "point_ledger"),
	}
}

func (l *pointLedgerImpl) PlaceHold(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	reservationID uuid.UUID,
) (point.Hold, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	acc, err := l.accounts.Get(ctx, userID)
	if err != nil {
		return point.Hold{}, errs.Wrap(err, "load point account")
	}

	hold, created, err := acc.PlaceHold(reservationID, amount, l.clock.Now())
	if err != nil {
		return point.Hold{}, err
	}
	if !created {
		return hold, nil
	}

	if err := l.accounts.Save(ctx, acc); err != nil {
		return point.Hold{}, errs.Wrap(err, "save point hold")
	}

	l.logger.DebugContext(ctx, "points held",
		"user_id", userID, "reservation_id", reservationID, "amount", amount)
	return hold, nil
}

func (l *pointLedgerImpl) Settle(ctx context.Context, userID, reservationID uuid.UUID) (point.Hold, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	acc, err := l.accounts.Get(ctx, userID)
	if err != nil {
		return point.Hold{}, errs.Wrap(err, "load point account")
	}

	now := l.clock.Now()
	hold, err := acc.Settle(reservationID, now)
	if err != nil {
		l.logHoldError(ctx, "settle", userID, reservationID, err)
		return point.Hold{}, err
	}

	if err := l.accounts.Save(ctx, acc, point.NewSpendTransaction(hold, now)); err != nil {
		return point.Hold{}, errs.Wrap(err, "save point settlement")
	}

	l.logger.InfoContext(ctx, "points settled",
		"user_id", userID, "reservation_id", reservationID, "amount", hold.Amount)
	return hold, nil
}

func (l *pointLedgerImpl) Release(ctx context.Context, userID, reservationID uuid.UUID) (point.Hold, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	acc, err := l.accounts.Get(ctx, userID)
	if err != nil {
		return point.Hold{}, errs.Wrap(err, "load point account")
	}

	hold, err := acc.Release(reservationID, l.clock.Now())
	if err != nil {
		l.logHoldError(ctx, "release", userID, reservationID, err)
		return point.Hold{}, err
	}

	if err := l.accounts.Save(ctx, acc); err != nil {
		return point.Hold{}, errs.Wrap(err, "save point release")
	}

	l.logger.DebugContext(ctx, "points released",
		"user_id", userID, "reservation_id", reservationID, "amount", hold.Amount)
	return hold, nil
}

func (l *pointLedgerImpl) Credit(ctx context.Context, userID uuid.UUID, amount int64, reason string) (point.Balance, error) {
	if userID == uuid.Nil {
		return point.Balance{}, errs.Kind(errs.ErrInvalidArgument, "credit requires a user id")
	}

	unlock := l.locks.Lock(userID)
	defer unlock()

	acc, err := l.accounts.Get(ctx, userID)
	if err != nil {
		return point.Balance{}, errs.Wrap(err, "load point account")
	}

	now := l.clock.Now()
	if err := acc.Credit(amount, now); err != nil {
		return point.Balance{}, err
	}

	if err := l.accounts.Save(ctx, acc, point.NewEarnTransaction(userID, amount, reason, now)); err != nil {
		return point.Balance{}, errs.Wrap(err, "save point credit")
	}

	l.logger.InfoContext(ctx, "points credited", "user_id", userID, "amount", amount, "reason", reason)
	return acc.Balance(), nil
}

func (l *pointLedgerImpl) logHoldError(ctx context.Context, op string, userID, reservationID uuid.UUID, err error) {
	if errs.Is(err, errs.ErrHoldNotFound) {
		l.logger.ErrorContext(ctx, "hold missing for reservation",
			"op", op, "user_id", userID, "reservation_id", reservationID, "error", err)
	}
}
