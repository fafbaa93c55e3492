package domain

import "errors"

// Sentinel errors shared by services, repositories and the delivery layer.
var (
	ErrUnauthorized = errors.New("authorization required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilter is returned for unknown fields or operators and for
	// values that cannot be coerced to the field's type.
	ErrInvalidFilter = errors.New("filter contains invalid field, operator or value")
	// ErrMultipleInequalityFields is returned when non-equality operators are
	// used on more than one distinct field in the same query.
	ErrMultipleInequalityFields = errors.New("inequality filter is allowed on only one field")

	ErrAlreadyRegistered = errors.New("you have already registered for this conference")
	ErrNoSeatsAvailable  = errors.New("there are no seats available")

	// ErrConcurrentModification means a single transaction attempt lost a race
	// against another writer. The attempt can be retried.
	ErrConcurrentModification = errors.New("entity was modified concurrently")
	// ErrTransactionConflict is returned once the bounded retries are exhausted.
	ErrTransactionConflict = errors.New("transaction conflict, retry later")
	// ErrStoreTimeout is returned when the entity store did not answer in time.
	ErrStoreTimeout = errors.New("entity store timed out, retry later")

	ErrQueueFull = errors.New("task queue is full")
)

// IsRetryable reports whether err is a transient store condition the caller
// may retry as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict) ||
		errors.Is(err, ErrStoreTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
