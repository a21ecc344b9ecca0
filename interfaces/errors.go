package interfaces

import "errors"

// Registry error taxonomy. Every precondition failure aborts the whole call
// with no partial state change; callers should treat these as expected,
// actionable outcomes rather than system faults.
var (
	// ErrInvalidEventID is returned when an operation references an event id
	// that was never issued.
	ErrInvalidEventID = errors.New("unknown event id")

	// ErrWrongAsset is returned when the attached payment's asset does not
	// match the accepted base asset.
	ErrWrongAsset = errors.New("payment asset not accepted")

	// ErrInsufficientPayment is returned when the attached amount is below
	// the event's required deposit.
	ErrInsufficientPayment = errors.New("payment below required deposit")

	// ErrTransferFailed is returned when the ledger could not move funds to
	// the event owner. No registry state is mutated in that case.
	ErrTransferFailed = errors.New("transfer to event owner failed")
)

// Input validation errors surfaced at the interface boundary.
var (
	ErrNameTooLong     = errors.New("event name exceeds field width")
	ErrInvalidName     = errors.New("invalid event name")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// ErrEventNotFound is the store-level sentinel for a missing record. The
// registry maps it to ErrInvalidEventID; since records are never deleted,
// the two coincide.
var ErrEventNotFound = errors.New("event not found in store")
