package point

import (
	"sort"
	"time"

	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

// Hold earmarks points for one reservation until it settles or is released.
type Hold struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	Amount        int64
	CreatedAt     time.Time
}

// Balance is a read-only view of an account.
type Balance struct {
	UserID    uuid.UUID
	Total     int64
	Earned    int64
	Spent     int64
	Held      int64
	Available int64
}

// Account is the per-user aggregate of the point ledger.
// Invariant: 0 <= Held() <= total at all times.
type Account struct {
	userID    uuid.UUID
	total     int64
	earned    int64
	spent     int64
	holds     map[uuid.UUID]Hold
	version   int64
	updatedAt time.Time
}

func NewAccount(userID uuid.UUID) *Account {
	return &Account{
		userID: userID,
		holds:  make(map[uuid.UUID]Hold),
	}
}

func ReconstructAccount(
	userID uuid.UUID,
	total, earned, spent int64,
	holds []Hold,
	version int64,
	updatedAt time.Time,
) *Account {
	a := &Account{
		userID:    userID,
		total:     total,
		earned:    earned,
		spent:     spent,
		holds:     make(map[uuid.UUID]Hold, len(holds)),
		version:   version,
		updatedAt: updatedAt,
	}
	for _, h := range holds {
		a.holds[h.ReservationID] = h
	}
	return a
}

func (a *Account) Held() int64 {
	var sum int64
	for _, h := range a.holds {
		sum += h.Amount
	}
	return sum
}

func (a *Account) Available() int64 {
	return a.total - a.Held()
}

// PlaceHold is idempotent per reservation: a repeated call returns the
// existing hold and created=false.
func (a *Account) PlaceHold(reservationID uuid.UUID, amount int64, now time.Time) (hold Hold, created bool, err error) {
	if existing, ok := a.holds[reservationID]; ok {
		return existing, false, nil
	}
	if amount < 0 {
		return Hold{}, false, errs.Kind(errs.ErrInvalidArgument, "hold amount cannot be negative: %d", amount)
	}
	if available := a.Available(); available < amount {
		return Hold{}, false, errs.Kind(errs.ErrInsufficientPoints,
			"user %s has %d available points, %d required", a.userID, available, amount)
	}

	hold = Hold{
		ReservationID: reservationID,
		UserID:        a.userID,
		Amount:        amount,
		CreatedAt:     now,
	}
	a.holds[reservationID] = hold
	a.touch(now)
	return hold, true, nil
}

// Settle turns the hold into a permanent deduction.
func (a *Account) Settle(reservationID uuid.UUID, now time.Time) (Hold, error) {
	hold, ok := a.holds[reservationID]
	if !ok {
		return Hold{}, a.holdNotFound(reservationID)
	}
	delete(a.holds, reservationID)
	a.total -= hold.Amount
	a.spent += hold.Amount
	a.touch(now)
	return hold, nil
}

// Release drops the hold without deducting anything.
func (a *Account) Release(reservationID uuid.UUID, now time.Time) (Hold, error) {
	hold, ok := a.holds[reservationID]
	if !ok {
		return Hold{}, a.holdNotFound(reservationID)
	}
	delete(a.holds, reservationID)
	a.touch(now)
	return hold, nil
}

func (a *Account) Credit(amount int64, now time.Time) error {
	if amount < 0 {
		return errs.Kind(errs.ErrInvalidArgument, "credit amount cannot be negative: %d", amount)
	}
	a.total += amount
	a.earned += amount
	a.touch(now)
	return nil
}

func (a *Account) HasHold(reservationID uuid.UUID) bool {
	_, ok := a.holds[reservationID]
	return ok
}

func (a *Account) holdNotFound(reservationID uuid.UUID) error {
	return errs.Kind(errs.ErrHoldNotFound, "no active hold for reservation %s of user %s", reservationID, a.userID)
}

func (a *Account) touch(now time.Time) {
	a.updatedAt = now
}

// Holds returns the active holds ordered by creation time.
func (a *Account) Holds() []Hold {
	out := make([]Hold, 0, len(a.holds))
	for _, h := range a.holds {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ReservationID.String() < out[j].ReservationID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (a *Account) Balance() Balance {
	held := a.Held()
	return Balance{
		UserID:    a.userID,
		Total:     a.total,
		Earned:    a.earned,
		Spent:     a.spent,
		Held:      held,
		Available: a.total - held,
	}
}

// Clone returns a deep copy; stores hand out clones so callers never share holds maps.
func (a *Account) Clone() *Account {
	return ReconstructAccount(a.userID, a.total, a.earned, a.spent, a.Holds(), a.version, a.updatedAt)
}

// NextVersion is called by stores after a successful write.
func (a *Account) NextVersion() {
	a.version++
}

func (a *Account) UserID() uuid.UUID    { return a.userID }
func (a *Account) Total() int64         { return a.total }
func (a *Account) Earned() int64        { return a.earned }
func (a *Account) Spent() int64         { return a.spent }
func (a *Account) Version() int64       { return a.version }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }
