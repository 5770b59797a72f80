package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"book-locker/internal/domain/reservation"
	"book-locker/internal/domain/user"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/config"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/keylock"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/commands/reservation_mock.go -package=commandsmock

type ReservationCommands interface {
	// Reserve claims the book, holds price points, assigns a compartment and
	// records an ACTIVE reservation. Any failed step undoes the earlier ones.
	Reserve(ctx context.Context, userID, bookID uuid.UUID, price int64) (*reservation.Reservation, error)
	// ReserveBook is Reserve at the catalog price.
	ReserveBook(ctx context.Context, userID, bookID uuid.UUID) (*reservation.Reservation, error)
	Fulfill(ctx context.Context, actor user.Actor, reservationID uuid.UUID) (*reservation.Reservation, error)
	Cancel(ctx context.Context, actor user.Actor, reservationID uuid.UUID) (*reservation.Reservation, error)
	// Expire never blocks: a reservation busy with another transition is
	// skipped and reported as not expired.
	Expire(ctx context.Context, reservationID uuid.UUID) (bool, error)
	// Restore rebuilds book claims from persisted ACTIVE reservations.
	Restore(ctx context.Context) (int, error)
}

type reservationRegistry struct {
	reservations shared.ReservationStore
	catalog      shared.Catalog
	ledger       PointLedger
	lockers      LockerCommands
	notifier     shared.Notifier
	alerter      shared.Alerter
	claims       *bookClaims
	locks        *keylock.Locker
	clock        clock.Clock
	holdWindow   time.Duration
	logger       *slog.Logger
}

func NewReservationCommands(
	reservations shared.ReservationStore,
	catalog shared.Catalog,
	ledger PointLedger,
	lockers LockerCommands,
	notifier shared.Notifier,
	alerter shared.Alerter,
	clk clock.Clock,
	engine config.EngineConfig,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationRegistry{
		reservations: reservations,
		catalog:      catalog,
		ledger:       ledger,
		lockers:      lockers,
		notifier:     notifier,
		alerter:      alerter,
		claims:       newBookClaims(),
		locks:        keylock.New(),
		clock:        clk,
		holdWindow:   engine.HoldWindow,
		logger:       logger.With("component", "reservation_registry"),
	}
}

func (r *reservationRegistry) ReserveBook(ctx context.Context, userID, bookID uuid.UUID) (*reservation.Reservation, error) {
	price, err := r.catalog.BookPrice(ctx, bookID)
	if err != nil {
		return nil, errs.Wrapf(err, "look up price of book %s", bookID)
	}
	return r.Reserve(ctx, userID, bookID, price)
}

func (r *reservationRegistry) Reserve(
	ctx context.Context,
	userID, bookID uuid.UUID,
	price int64,
) (*reservation.Reservation, error) {
	if userID == uuid.Nil || bookID == uuid.Nil {
		return nil, errs.Kind(errs.ErrInvalidArgument, "reserve requires a user and a book")
	}
	if price < 0 {
		return nil, errs.Kind(errs.ErrInvalidArgument, "price cannot be negative: %d", price)
	}

	reservationID := uuid.New()
	if !r.claims.claim(bookID, reservationID) {
		return nil, errs.Kind(errs.ErrBookAlreadyReserved, "book %s already has an active reservation", bookID)
	}

	sg := &saga{logger: r.logger, reservationID: reservationID}
	sg.onFailure("release_claim", func(context.Context) error {
		r.claims.release(bookID, reservationID)
		return nil
	})

	if _, err := r.ledger.PlaceHold(ctx, userID, price, reservationID); err != nil {
		sg.compensate(ctx)
		return nil, err
	}
	sg.onFailure("release_hold", func(ctx context.Context) error {
		_, err := r.ledger.Release(ctx, userID, reservationID)
		return err
	})

	assigned, err := r.lockers.Assign(ctx, userID, reservationID)
	if err != nil {
		sg.compensate(ctx)
		return nil, err
	}
	sg.onFailure("release_locker", func(ctx context.Context) error {
		return r.lockers.Release(ctx, userID, assigned.ID(), reservationID)
	})

	res, err := reservation.NewReservation(reservationID, bookID, userID, assigned.ID(), price, r.clock.Now(), r.holdWindow)
	if err != nil {
		sg.compensate(ctx)
		return nil, err
	}
	if err := r.reservations.Create(ctx, res); err != nil {
		sg.compensate(ctx)
		return nil, errs.Wrap(err, "create reservation")
	}

	r.logger.InfoContext(ctx, "book reserved",
		"reservation_id", reservationID, "book_id", bookID, "user_id", userID,
		"locker_id", assigned.ID(), "price", price, "expires_at", res.ExpiresAt())
	r.notify(ctx, res, shared.NotifyReservationCreated)
	return res, nil
}

func (r *reservationRegistry) Fulfill(
	ctx context.Context,
	actor user.Actor,
	reservationID uuid.UUID,
) (*reservation.Reservation, error) {
	unlock := r.locks.Lock(reservationID)
	defer unlock()

	res, err := r.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID() != actor.ID && actor.Role != user.RoleDevice && !actor.IsAdmin() {
		return nil, errs.Kind(errs.ErrUnauthorized, "user %s cannot fulfill reservation %s", actor.ID, reservationID)
	}

	if err := res.Fulfill(r.clock.Now(), actor.ID); err != nil {
		return nil, err
	}
	if _, err := r.ledger.Settle(ctx, res.UserID(), reservationID); err != nil {
		r.raiseOnMissingHold(ctx, res, err)
		return nil, err
	}

	return res, r.close(ctx, res, shared.NotifyReservationFulfilled)
}

func (r *reservationRegistry) Cancel(
	ctx context.Context,
	actor user.Actor,
	reservationID uuid.UUID,
) (*reservation.Reservation, error) {
	unlock := r.locks.Lock(reservationID)
	defer unlock()

	res, err := r.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID() != actor.ID && !actor.IsAdmin() {
		return nil, errs.Kind(errs.ErrUnauthorized, "user %s cannot cancel reservation %s", actor.ID, reservationID)
	}

	if err := res.Cancel(r.clock.Now(), actor.ID); err != nil {
		return nil, err
	}
	if _, err := r.ledger.Release(ctx, res.UserID(), reservationID); err != nil {
		r.raiseOnMissingHold(ctx, res, err)
		return nil, err
	}

	return res, r.close(ctx, res, shared.NotifyReservationCancelled)
}

func (r *reservationRegistry) Expire(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	unlock, ok := r.locks.TryLock(reservationID)
	if !ok {
		return false, nil
	}
	defer unlock()

	res, err := r.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return false, err
	}

	now := r.clock.Now()
	if !res.IsDue(now) {
		return false, nil
	}
	if err := res.Expire(now); err != nil {
		return false, err
	}
	if _, err := r.ledger.Release(ctx, res.UserID(), reservationID); err != nil {
		r.raiseOnMissingHold(ctx, res, err)
		return false, err
	}

	if err := r.close(ctx, res, shared.NotifyReservationExpired); err != nil {
		return false, err
	}
	return true, nil
}

func (r *reservationRegistry) Restore(ctx context.Context) (int, error) {
	active, err := r.reservations.ListActive(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "list active reservations")
	}

	restored := 0
	for _, res := range active {
		if r.claims.claim(res.BookID(), res.ID()) {
			restored++
			continue
		}
		r.logger.ErrorContext(ctx, "book has more than one active reservation",
			"book_id", res.BookID(), "reservation_id", res.ID())
	}
	r.logger.InfoContext(ctx, "book claims restored", "count", restored)
	return restored, nil
}

// close persists a terminal reservation whose points are already settled or
// released, then frees its compartment and book claim.
func (r *reservationRegistry) close(ctx context.Context, res *reservation.Reservation, kind shared.NotificationKind) error {
	if err := r.reservations.Update(ctx, res); err != nil {
		r.logger.ErrorContext(ctx, "ledger updated but reservation not persisted",
			"reservation_id", res.ID(), "status", res.Status(), "error", err)
		r.raiseInvariant(ctx, res, fmt.Sprintf("reservation %s not persisted as %s after ledger update", res.ID(), res.Status()))
		return errs.Wrap(err, "update reservation")
	}

	if err := r.lockers.Release(ctx, res.UserID(), res.LockerID(), res.ID()); err != nil {
		r.logger.ErrorContext(ctx, "failed to release locker",
			"reservation_id", res.ID(), "locker_id", res.LockerID(), "error", err)
	}
	r.claims.release(res.BookID(), res.ID())

	r.logger.InfoContext(ctx, "reservation closed",
		"reservation_id", res.ID(), "status", res.Status(), "user_id", res.UserID())
	r.notify(ctx, res, kind)
	return nil
}

func (r *reservationRegistry) notify(ctx context.Context, res *reservation.Reservation, kind shared.NotificationKind) {
	payload := map[string]any{
		"reservation_id": res.ID(),
		"book_id":        res.BookID(),
		"locker_id":      res.LockerID(),
		"status":         res.Status().String(),
		"expires_at":     res.ExpiresAt(),
	}
	if err := r.notifier.Notify(ctx, res.UserID(), kind, payload); err != nil {
		r.logger.WarnContext(ctx, "failed to queue notification",
			"reservation_id", res.ID(), "kind", kind, "error", err)
	}
}

func (r *reservationRegistry) raiseOnMissingHold(ctx context.Context, res *reservation.Reservation, err error) {
	if !errs.Is(err, errs.ErrHoldNotFound) {
		return
	}
	r.logger.ErrorContext(ctx, "active reservation has no hold",
		"reservation_id", res.ID(), "user_id", res.UserID(), "error", err)
	r.raiseInvariant(ctx, res, fmt.Sprintf("reservation %s has no point hold", res.ID()))
}

func (r *reservationRegistry) raiseInvariant(ctx context.Context, res *reservation.Reservation, msg string) {
	id := res.ID()
	lockerID := res.LockerID()
	alert := shared.Alert{
		Kind:          shared.AlertInvariantBreached,
		ReservationID: &id,
		LockerID:      &lockerID,
		Message:       msg,
		RaisedAt:      r.clock.Now(),
	}
	if err := r.alerter.Raise(ctx, alert); err != nil {
		r.logger.ErrorContext(ctx, "failed to raise alert", "reservation_id", id, "error", err)
	}
}

// bookClaims marks books with an in-flight or ACTIVE reservation.
type bookClaims struct {
	mu     sync.Mutex
	owners map[uuid.UUID]uuid.UUID
}

func newBookClaims() *bookClaims {
	return &bookClaims{owners: make(map[uuid.UUID]uuid.UUID)}
}

func (c *bookClaims) claim(bookID, reservationID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.owners[bookID]; taken {
		return false
	}
	c.owners[bookID] = reservationID
	return true
}

// release only drops the claim held by reservationID.
func (c *bookClaims) release(bookID, reservationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owners[bookID] == reservationID {
		delete(c.owners, bookID)
	}
}

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga collects undo steps and runs them in reverse order on failure.
type saga struct {
	logger        *slog.Logger
	reservationID uuid.UUID
	steps         []compensation
}

func (s *saga) onFailure(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

func (s *saga) compensate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				"step", step.name, "reservation_id", s.reservationID, "error", err)
		}
	}
}
