package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/user"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/config"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/keylock"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=locker.go -destination=../../../tests/mock/commands/locker_mock.go -package=commandsmock

// LockerCommands drives the compartment state machine. All transitions of
// one locker are serialized and every attempt is written to the system log.
type LockerCommands interface {
	Provision(ctx context.Context, actor user.Actor, number int) (*locker.Locker, error)
	Open(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error)
	Close(ctx context.Context, actor user.Actor, lockerID uuid.UUID, bookPresent bool) (*locker.Locker, error)
	ReportFault(ctx context.Context, actor user.Actor, lockerID uuid.UUID, kind locker.FaultKind) (*locker.Locker, error)
	Heartbeat(ctx context.Context, actor user.Actor, lockerID uuid.UUID) error
	AcknowledgeFault(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error)
	Reset(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error)
	Disable(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error)
	EmergencyOpen(ctx context.Context, actor user.Actor, lockerID uuid.UUID, reason string) (*locker.Locker, error)

	// Assign reserves a free compartment for reservationID.
	Assign(ctx context.Context, userID, reservationID uuid.UUID) (*locker.Locker, error)
	Release(ctx context.Context, userID, lockerID, reservationID uuid.UUID) error

	// The Sweep* methods never block on a busy locker; they report whether
	// a transition happened.
	SweepDoorTimeout(ctx context.Context, lockerID uuid.UUID) (bool, error)
	SweepEscalation(ctx context.Context, lockerID uuid.UUID) (bool, error)
	SweepHeartbeat(ctx context.Context, lockerID uuid.UUID) (bool, error)
}

type lockerStateMachine struct {
	lockers      shared.LockerStore
	reservations shared.ReservationStore
	logs         shared.SystemLogStore
	alerter      shared.Alerter
	locks        *keylock.Locker
	clock        clock.Clock
	timing       config.EngineConfig
	logger       *slog.Logger
}

func NewLockerCommands(
	lockers shared.LockerStore,
	reservations shared.ReservationStore,
	logs shared.SystemLogStore,
	alerter shared.Alerter,
	clk clock.Clock,
	timing config.EngineConfig,
	logger *slog.Logger,
) LockerCommands {
	return &lockerStateMachine{
		lockers:      lockers,
		reservations: reservations,
		logs:         logs,
		alerter:      alerter,
		locks:        keylock.New(),
		clock:        clk,
		timing:       timing,
		logger:       logger.With("component", "locker_state_machine"),
	}
}

// applyFunc mutates a locker loaded under its lock.
type applyFunc func(l *locker.Locker, now time.Time) error

func (m *lockerStateMachine) Provision(ctx context.Context, actor user.Actor, number int) (*locker.Locker, error) {
	if !actor.IsAdmin() {
		return nil, errs.Kind(errs.ErrUnauthorized, "provisioning lockers requires admin")
	}

	now := m.clock.Now()
	l, err := locker.NewLocker(uuid.New(), number, now)
	if err != nil {
		return nil, err
	}
	if err := m.lockers.Create(ctx, l); err != nil {
		return nil, errs.Wrap(err, "create locker")
	}

	m.appendLog(ctx, locker.NewLogEntry(l.ID(), actor.ID, locker.EventProvision, locker.ResultSuccess,
		fmt.Sprintf("compartment %d", number), now))
	m.logger.InfoContext(ctx, "locker provisioned", "locker_id", l.ID(), "number", number)
	return l, nil
}

func (m *lockerStateMachine) Open(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error) {
	return m.transition(ctx, actor, lockerID, locker.EventOpen, func(l *locker.Locker, now time.Time) error {
		owns, err := m.ownsAssignment(ctx, actor, l)
		if err != nil {
			return err
		}
		return l.Open(now, owns)
	})
}

func (m *lockerStateMachine) Close(
	ctx context.Context,
	actor user.Actor,
	lockerID uuid.UUID,
	bookPresent bool,
) (*locker.Locker, error) {
	return m.transition(ctx, actor, lockerID, locker.EventClose, func(l *locker.Locker, now time.Time) error {
		return l.Close(now, bookPresent)
	})
}

// ReportFault accepts device and admin reports.
func (m *lockerStateMachine) ReportFault(
	ctx context.Context,
	actor user.Actor,
	lockerID uuid.UUID,
	kind locker.FaultKind,
) (*locker.Locker, error) {
	var entered bool
	l, err := m.transition(ctx, actor, lockerID, locker.EventFault, func(l *locker.Locker, now time.Time) error {
		if err := requireDevice(actor); err != nil {
			return err
		}
		if _, ok := locker.NewFaultKind(kind.String()); !ok {
			return errs.Kind(errs.ErrInvalidArgument, "unknown fault kind %q", kind)
		}
		entered = l.Status() != locker.StatusFault
		return l.ReportFault(now, kind)
	})
	if err != nil {
		return nil, err
	}
	if entered {
		m.raiseFault(ctx, l)
	}
	return l, nil
}

func (m *lockerStateMachine) Heartbeat(ctx context.Context, actor user.Actor, lockerID uuid.UUID) error {
	if err := requireDevice(actor); err != nil {
		return err
	}

	unlock := m.locks.Lock(lockerID)
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return err
	}
	l.Heartbeat(m.clock.Now())
	if err := m.lockers.Update(ctx, l); err != nil {
		return errs.Wrap(err, "save heartbeat")
	}
	return nil
}

func (m *lockerStateMachine) AcknowledgeFault(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error) {
	return m.transition(ctx, actor, lockerID, locker.EventAcknowledge, func(l *locker.Locker, now time.Time) error {
		if err := requireAdmin(actor, "acknowledging faults"); err != nil {
			return err
		}
		return l.AcknowledgeFault(now)
	})
}

func (m *lockerStateMachine) Reset(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error) {
	return m.transition(ctx, actor, lockerID, locker.EventReset, func(l *locker.Locker, now time.Time) error {
		if err := requireAdmin(actor, "resetting lockers"); err != nil {
			return err
		}
		return l.Reset(now)
	})
}

func (m *lockerStateMachine) Disable(ctx context.Context, actor user.Actor, lockerID uuid.UUID) (*locker.Locker, error) {
	return m.transition(ctx, actor, lockerID, locker.EventDisable, func(l *locker.Locker, now time.Time) error {
		if err := requireAdmin(actor, "disabling lockers"); err != nil {
			return err
		}
		l.Disable(now)
		return nil
	})
}

// EmergencyOpen writes the log entry before touching state; if the entry
// cannot be stored the locker is left as it was.
func (m *lockerStateMachine) EmergencyOpen(
	ctx context.Context,
	actor user.Actor,
	lockerID uuid.UUID,
	reason string,
) (*locker.Locker, error) {
	unlock := m.locks.Lock(lockerID)
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	from := l.Status()
	if err := requireAdmin(actor, "emergency open"); err != nil {
		m.appendLog(ctx, locker.NewLogEntry(lockerID, actor.ID, locker.EventEmergencyOpen, locker.ResultRejected,
			from.String(), now))
		return nil, err
	}

	entry, err := locker.NewEmergencyLogEntry(lockerID, actor.ID, reason, transitionDetail(from, locker.StatusOpen), now)
	if err != nil {
		return nil, err
	}
	if err := m.logs.Append(ctx, entry); err != nil {
		m.logger.ErrorContext(ctx, "emergency open aborted, system log unavailable",
			"locker_id", lockerID, "user_id", actor.ID, "error", err)
		return nil, errs.Mark(errs.Wrap(err, "append emergency open log"), errs.ErrLogWriteFailed)
	}

	l.EmergencyOpen(now)
	if err := m.lockers.Update(ctx, l); err != nil {
		return nil, errs.Wrap(err, "save emergency open")
	}

	m.logger.WarnContext(ctx, "locker emergency opened",
		"locker_id", lockerID, "user_id", actor.ID, "from", from, "reason", entry.Reason)
	return l, nil
}

func (m *lockerStateMachine) Assign(ctx context.Context, userID, reservationID uuid.UUID) (*locker.Locker, error) {
	candidates, err := m.lockers.ListByStatus(ctx, locker.StatusAvailable)
	if err != nil {
		return nil, errs.Wrap(err, "list available lockers")
	}

	for _, c := range candidates {
		if !c.IsAssignable() {
			continue
		}
		l, ok, err := m.tryAssign(ctx, c.ID(), userID, reservationID)
		if err != nil {
			return nil, err
		}
		if ok {
			return l, nil
		}
	}
	return nil, errs.Kind(errs.ErrNoLockerAvailable, "no compartment available for reservation %s", reservationID)
}

// tryAssign re-checks the candidate under its lock; a concurrent reservation
// may have taken it since it was listed.
func (m *lockerStateMachine) tryAssign(ctx context.Context, lockerID, userID, reservationID uuid.UUID) (*locker.Locker, bool, error) {
	unlock := m.locks.Lock(lockerID)
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return nil, false, err
	}
	if !l.IsAssignable() {
		return nil, false, nil
	}

	now := m.clock.Now()
	from := l.Status()
	if err := l.Assign(now, reservationID); err != nil {
		return nil, false, nil
	}
	if err := m.lockers.Update(ctx, l); err != nil {
		return nil, false, errs.Wrap(err, "save locker assignment")
	}

	m.appendLog(ctx, locker.NewLogEntry(lockerID, userID, locker.EventAssign, locker.ResultSuccess,
		transitionDetail(from, l.Status()), now))
	return l, true, nil
}

func (m *lockerStateMachine) Release(ctx context.Context, userID, lockerID, reservationID uuid.UUID) error {
	unlock := m.locks.Lock(lockerID)
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return err
	}

	now := m.clock.Now()
	from := l.Status()
	if err := l.Release(now, reservationID); err != nil {
		m.appendLog(ctx, locker.NewLogEntry(lockerID, userID, locker.EventRelease, locker.ResultRejected,
			from.String(), now))
		return err
	}
	if err := m.lockers.Update(ctx, l); err != nil {
		return errs.Wrap(err, "save locker release")
	}

	m.appendLog(ctx, locker.NewLogEntry(lockerID, userID, locker.EventRelease, locker.ResultSuccess,
		transitionDetail(from, l.Status()), now))
	return nil
}

func (m *lockerStateMachine) SweepDoorTimeout(ctx context.Context, lockerID uuid.UUID) (bool, error) {
	return m.sweepIntoFault(ctx, lockerID, locker.EventDoorTimeout,
		func(l *locker.Locker, now time.Time) bool {
			return l.Status() == locker.StatusOpen && l.DoorOpenFor(now) >= m.timing.DoorTimeout
		},
		func(l *locker.Locker, now time.Time) error {
			return l.DoorTimeout(now, m.timing.DoorTimeout)
		},
	)
}

func (m *lockerStateMachine) SweepEscalation(ctx context.Context, lockerID uuid.UUID) (bool, error) {
	_, escalated, err := m.sweep(ctx, lockerID, locker.EventEscalate,
		func(l *locker.Locker, now time.Time) bool {
			return l.EscalationDue(now, m.timing.FaultEscalation)
		},
		func(l *locker.Locker, now time.Time) error {
			return l.Escalate(now, m.timing.FaultEscalation)
		},
	)
	if err != nil || !escalated {
		return escalated, err
	}

	id := lockerID
	m.raise(ctx, shared.Alert{
		Kind:     shared.AlertLockerDisabled,
		LockerID: &id,
		Message:  fmt.Sprintf("locker %s disabled after unacknowledged fault", lockerID),
		RaisedAt: m.clock.Now(),
	})
	return true, nil
}

func (m *lockerStateMachine) SweepHeartbeat(ctx context.Context, lockerID uuid.UUID) (bool, error) {
	return m.sweepIntoFault(ctx, lockerID, locker.EventFault,
		func(l *locker.Locker, now time.Time) bool {
			return l.HeartbeatLost(now, m.timing.HeartbeatTimeout)
		},
		func(l *locker.Locker, now time.Time) error {
			return l.ReportFault(now, locker.FaultNetwork)
		},
	)
}

// sweepIntoFault runs a sweep whose transition ends in FAULT and pages
// operators when it happened.
func (m *lockerStateMachine) sweepIntoFault(
	ctx context.Context,
	lockerID uuid.UUID,
	event locker.EventType,
	due func(l *locker.Locker, now time.Time) bool,
	apply applyFunc,
) (bool, error) {
	l, moved, err := m.sweep(ctx, lockerID, event, due, apply)
	if err != nil || !moved {
		return moved, err
	}
	m.raiseFault(ctx, l)
	return true, nil
}

// sweep is the non-blocking variant of transition used by the sweeper.
// Lockers that are busy or no longer due are skipped without a log entry.
func (m *lockerStateMachine) sweep(
	ctx context.Context,
	lockerID uuid.UUID,
	event locker.EventType,
	due func(l *locker.Locker, now time.Time) bool,
	apply applyFunc,
) (*locker.Locker, bool, error) {
	unlock, ok := m.locks.TryLock(lockerID)
	if !ok {
		return nil, false, nil
	}
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return nil, false, err
	}

	now := m.clock.Now()
	if !due(l, now) {
		return nil, false, nil
	}

	from := l.Status()
	if err := apply(l, now); err != nil {
		return nil, false, err
	}
	if err := m.lockers.Update(ctx, l); err != nil {
		return nil, false, errs.Wrap(err, "save swept locker")
	}

	m.appendLog(ctx, locker.NewLogEntry(lockerID, uuid.Nil, event, locker.ResultSuccess,
		transitionDetail(from, l.Status()), now))
	m.logger.WarnContext(ctx, "locker transitioned by sweeper",
		"locker_id", lockerID, "event", event, "from", from, "to", l.Status(), "fault_kind", l.FaultKind())
	return l, true, nil
}

// transition loads the locker under its lock, applies fn and persists the
// result. Rejected attempts are logged and leave the locker untouched.
func (m *lockerStateMachine) transition(
	ctx context.Context,
	actor user.Actor,
	lockerID uuid.UUID,
	event locker.EventType,
	fn applyFunc,
) (*locker.Locker, error) {
	unlock := m.locks.Lock(lockerID)
	defer unlock()

	l, err := m.lockers.FindByID(ctx, lockerID)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	from := l.Status()
	if err := fn(l, now); err != nil {
		m.appendLog(ctx, locker.NewLogEntry(lockerID, actor.ID, event, locker.ResultRejected, from.String(), now))
		m.logger.InfoContext(ctx, "locker transition rejected",
			"locker_id", lockerID, "user_id", actor.ID, "event", event, "state", from, "error", err)
		return nil, err
	}

	if err := m.lockers.Update(ctx, l); err != nil {
		return nil, errs.Wrap(err, "save locker")
	}

	m.appendLog(ctx, locker.NewLogEntry(lockerID, actor.ID, event, locker.ResultSuccess,
		transitionDetail(from, l.Status()), now))
	return l, nil
}

// ownsAssignment reports whether actor may open an assigned compartment.
func (m *lockerStateMachine) ownsAssignment(ctx context.Context, actor user.Actor, l *locker.Locker) (bool, error) {
	resID := l.ReservationID()
	if resID == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	res, err := m.reservations.FindByID(ctx, *resID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, errs.Wrap(err, "load assigned reservation")
	}
	return res.UserID() == actor.ID, nil
}

func (m *lockerStateMachine) raiseFault(ctx context.Context, l *locker.Locker) {
	id := l.ID()
	m.raise(ctx, shared.Alert{
		Kind:      shared.AlertLockerFault,
		LockerID:  &id,
		FaultKind: l.FaultKind().String(),
		Message:   fmt.Sprintf("locker %d faulted: %s", l.Number(), l.FaultKind()),
		RaisedAt:  m.clock.Now(),
	})
}

// raise never fails the transition that triggered the alert.
func (m *lockerStateMachine) raise(ctx context.Context, alert shared.Alert) {
	if err := m.alerter.Raise(ctx, alert); err != nil {
		m.logger.ErrorContext(ctx, "failed to raise locker alert",
			"locker_id", alert.LockerID, "kind", alert.Kind, "error", err)
	}
}

// appendLog records routine transitions. Failures are logged only; the
// emergency path writes its entry itself and aborts on failure.
func (m *lockerStateMachine) appendLog(ctx context.Context, entry locker.LogEntry) {
	if err := m.logs.Append(ctx, entry); err != nil {
		m.logger.ErrorContext(ctx, "failed to append system log",
			"locker_id", entry.LockerID, "event", entry.EventType, "error", err)
	}
}

func transitionDetail(from, to locker.Status) string {
	return from.String() + "->" + to.String()
}

func requireAdmin(actor user.Actor, what string) error {
	if !actor.IsAdmin() {
		return errs.Kind(errs.ErrUnauthorized, "%s requires admin", what)
	}
	return nil
}

func requireDevice(actor user.Actor) error {
	if actor.Role != user.RoleDevice && actor.Role != user.RoleAdmin {
		return errs.Kind(errs.ErrUnauthorized, "only lockers and admins report device state")
	}
	return nil
}
