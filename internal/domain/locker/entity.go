package locker

import (
	"time"

	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

// Locker is one physical compartment.
//
// reservationID is set while an ACTIVE reservation is assigned to the
// compartment; only assigned compartments are OCCUPIED through Assign.
type Locker struct {
	id                uuid.UUID
	number            int
	status            Status
	isBroken          bool
	faultKind         FaultKind
	openedAt          *time.Time
	faultedAt         *time.Time
	faultAcknowledged bool
	escalated         bool
	lastHeartbeatAt   *time.Time
	reservationID     *uuid.UUID
	createdAt         time.Time
	updatedAt         time.Time
}

func NewLocker(id uuid.UUID, number int, now time.Time) (*Locker, error) {
	if number <= 0 {
		return nil, errs.Kind(errs.ErrInvalidArgument, "compartment number must be positive: %d", number)
	}
	return &Locker{
		id:        id,
		number:    number,
		status:    StatusAvailable,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type Snapshot struct {
	ID                uuid.UUID
	Number            int
	Status            Status
	IsBroken          bool
	FaultKind         FaultKind
	OpenedAt          *time.Time
	FaultedAt         *time.Time
	FaultAcknowledged bool
	Escalated         bool
	LastHeartbeatAt   *time.Time
	ReservationID     *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func Reconstruct(s Snapshot) *Locker {
	return &Locker{
		id:                s.ID,
		number:            s.Number,
		status:            s.Status,
		isBroken:          s.IsBroken,
		faultKind:         s.FaultKind,
		openedAt:          copyTime(s.OpenedAt),
		faultedAt:         copyTime(s.FaultedAt),
		faultAcknowledged: s.FaultAcknowledged,
		escalated:         s.Escalated,
		lastHeartbeatAt:   copyTime(s.LastHeartbeatAt),
		reservationID:     copyID(s.ReservationID),
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

func (l *Locker) Snapshot() Snapshot {
	return Snapshot{
		ID:                l.id,
		Number:            l.number,
		Status:            l.status,
		IsBroken:          l.isBroken,
		FaultKind:         l.faultKind,
		OpenedAt:          copyTime(l.openedAt),
		FaultedAt:         copyTime(l.faultedAt),
		FaultAcknowledged: l.faultAcknowledged,
		Escalated:         l.escalated,
		LastHeartbeatAt:   copyTime(l.lastHeartbeatAt),
		ReservationID:     copyID(l.reservationID),
		CreatedAt:         l.createdAt,
		UpdatedAt:         l.updatedAt,
	}
}

func (l *Locker) Clone() *Locker {
	return Reconstruct(l.Snapshot())
}

// IsAssignable reports whether a new reservation may occupy the compartment.
func (l *Locker) IsAssignable() bool {
	return l.status == StatusAvailable && l.reservationID == nil && !l.isBroken
}

// AssignedTo reports whether reservationID is assigned to the compartment.
func (l *Locker) AssignedTo(reservationID uuid.UUID) bool {
	return l.reservationID != nil && *l.reservationID == reservationID
}

// Open: AVAILABLE -> OPEN, or OCCUPIED -> OPEN for the pickup door cycle.
// ownsAssignment tells whether the actor owns the assigned reservation; an
// assigned compartment opens for nobody else whatever its status.
func (l *Locker) Open(now time.Time, ownsAssignment bool) error {
	if l.reservationID != nil && !ownsAssignment {
		return l.invalid(EventOpen)
	}
	switch {
	case l.status == StatusAvailable && !l.isBroken:
	case l.status == StatusOccupied:
	default:
		return l.invalid(EventOpen)
	}
	l.status = StatusOpen
	l.openedAt = &now
	l.touch(now)
	return nil
}

// Close: OPEN -> OCCUPIED when a book is present or a reservation is still
// assigned, OPEN -> AVAILABLE otherwise. Only Release drops the assignment.
func (l *Locker) Close(now time.Time, bookPresent bool) error {
	if l.status != StatusOpen {
		return l.invalid(EventClose)
	}
	if bookPresent || l.reservationID != nil {
		l.status = StatusOccupied
	} else {
		l.status = StatusAvailable
	}
	l.openedAt = nil
	l.touch(now)
	return nil
}

func (l *Locker) Assign(now time.Time, reservationID uuid.UUID) error {
	if !l.IsAssignable() {
		return l.invalid(EventAssign)
	}
	l.status = StatusOccupied
	l.reservationID = &reservationID
	l.touch(now)
	return nil
}

// Release drops the assignment. The compartment only returns to AVAILABLE
// when it is OCCUPIED; a faulted or open door keeps its physical state.
func (l *Locker) Release(now time.Time, reservationID uuid.UUID) error {
	if !l.AssignedTo(reservationID) {
		return errs.Kind(errs.ErrInvalidTransition,
			"locker %d is not assigned to reservation %s", l.number, reservationID)
	}
	l.reservationID = nil
	if l.status == StatusOccupied {
		l.status = StatusAvailable
	}
	l.touch(now)
	return nil
}

// DoorOpenFor reports how long the door has been open.
func (l *Locker) DoorOpenFor(now time.Time) time.Duration {
	if l.status != StatusOpen || l.openedAt == nil {
		return 0
	}
	return now.Sub(*l.openedAt)
}

// DoorTimeout: OPEN for at least timeout -> FAULT(DOOR_STUCK).
func (l *Locker) DoorTimeout(now time.Time, timeout time.Duration) error {
	if l.status != StatusOpen || l.openedAt == nil {
		return l.invalid(EventDoorTimeout)
	}
	if l.DoorOpenFor(now) < timeout {
		return errs.Kind(errs.ErrInvalidTransition, "locker %d door open for %s, timeout is %s",
			l.number, l.DoorOpenFor(now), timeout)
	}
	l.enterFault(now, FaultDoorStuck)
	return nil
}

// ReportFault moves any non-DISABLED compartment to FAULT. A second report
// on a faulted compartment only updates the kind.
func (l *Locker) ReportFault(now time.Time, kind FaultKind) error {
	switch l.status {
	case StatusDisabled:
		return l.invalid(EventFault)
	case StatusFault:
		l.faultKind = kind
		l.touch(now)
		return nil
	}
	l.enterFault(now, kind)
	return nil
}

func (l *Locker) enterFault(now time.Time, kind FaultKind) {
	l.status = StatusFault
	l.faultKind = kind
	l.faultedAt = &now
	l.faultAcknowledged = false
	l.escalated = false
	l.openedAt = nil
	l.touch(now)
}

// EscalationDue reports an unacknowledged FAULT older than interval.
func (l *Locker) EscalationDue(now time.Time, interval time.Duration) bool {
	return l.status == StatusFault &&
		!l.faultAcknowledged &&
		!l.escalated &&
		l.faultedAt != nil &&
		now.Sub(*l.faultedAt) >= interval
}

// Escalate: unacknowledged FAULT -> DISABLED. Succeeds once per fault.
func (l *Locker) Escalate(now time.Time, interval time.Duration) error {
	if !l.EscalationDue(now, interval) {
		return l.invalid(EventEscalate)
	}
	l.status = StatusDisabled
	l.isBroken = true
	l.escalated = true
	l.touch(now)
	return nil
}

func (l *Locker) AcknowledgeFault(now time.Time) error {
	if l.status != StatusFault {
		return l.invalid(EventAcknowledge)
	}
	l.faultAcknowledged = true
	l.touch(now)
	return nil
}

// Reset: FAULT/DISABLED -> AVAILABLE, or OCCUPIED while a reservation is still assigned.
func (l *Locker) Reset(now time.Time) error {
	if l.status != StatusFault && l.status != StatusDisabled {
		return l.invalid(EventReset)
	}
	if l.reservationID != nil {
		l.status = StatusOccupied
	} else {
		l.status = StatusAvailable
	}
	l.clearFault()
	l.isBroken = false
	l.touch(now)
	return nil
}

// Disable and EmergencyOpen keep any assignment; occupancy is restored by
// Reset, Close or Release.
func (l *Locker) Disable(now time.Time) {
	l.status = StatusDisabled
	l.isBroken = true
	l.openedAt = nil
	l.touch(now)
}

// EmergencyOpen is permitted from any state.
func (l *Locker) EmergencyOpen(now time.Time) {
	l.status = StatusOpen
	l.openedAt = &now
	l.clearFault()
	l.touch(now)
}

func (l *Locker) clearFault() {
	l.faultKind = FaultNone
	l.faultedAt = nil
	l.faultAcknowledged = false
	l.escalated = false
}

func (l *Locker) Heartbeat(now time.Time) {
	l.lastHeartbeatAt = &now
}

// HeartbeatLost reports a compartment that used to report and went silent.
func (l *Locker) HeartbeatLost(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 || l.lastHeartbeatAt == nil {
		return false
	}
	if l.status == StatusFault || l.status == StatusDisabled {
		return false
	}
	return now.Sub(*l.lastHeartbeatAt) >= timeout
}

// invalid also marks ErrLockerFault while the compartment is out of service.
func (l *Locker) invalid(event EventType) error {
	err := errs.Kind(errs.ErrInvalidTransition, "locker %d cannot handle %s in state %s", l.number, event, l.status)
	if l.status == StatusFault || l.status == StatusDisabled {
		err = errs.Mark(err, errs.ErrLockerFault)
	}
	return err
}

func (l *Locker) touch(now time.Time) {
	l.updatedAt = now
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (l *Locker) ID() uuid.UUID               { return l.id }
func (l *Locker) Number() int                 { return l.number }
func (l *Locker) Status() Status              { return l.status }
func (l *Locker) IsBroken() bool              { return l.isBroken }
func (l *Locker) FaultKind() FaultKind        { return l.faultKind }
func (l *Locker) OpenedAt() *time.Time        { return copyTime(l.openedAt) }
func (l *Locker) FaultedAt() *time.Time       { return copyTime(l.faultedAt) }
func (l *Locker) FaultAcknowledged() bool     { return l.faultAcknowledged }
func (l *Locker) Escalated() bool             { return l.escalated }
func (l *Locker) LastHeartbeatAt() *time.Time { return copyTime(l.lastHeartbeatAt) }
func (l *Locker) ReservationID() *uuid.UUID   { return copyID(l.reservationID) }
func (l *Locker) CreatedAt() time.Time        { return l.createdAt }
func (l *Locker) UpdatedAt() time.Time        { return l.updatedAt }
