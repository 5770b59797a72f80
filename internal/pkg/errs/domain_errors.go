package errs

import "errors"

// Error kinds surfaced by the locker and reservation engine.
// Concrete errors are marked with one of these so callers can use errors.Is.
var (
	// Validation errors, returned to the caller unchanged
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrBookAlreadyReserved = errors.New("book already reserved")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrNoLockerAvailable   = errors.New("no locker available")

	// Handled inside the locker state machine
	ErrLockerFault = errors.New("locker fault")

	// Fatal: corrupted internal state or missing audit trail
	ErrHoldNotFound   = errors.New("hold not found")
	ErrLogWriteFailed = errors.New("system log write failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
