package interfaces

import (
	"context"
	"math/big"
)

// EventRegistry is the core state machine: a ledger of events and their
// registrations. All three operations run as atomic units; a precondition
// failure leaves no partial state behind.
type EventRegistry interface {
	// CreateEvent assigns the next event id, records the caller as owner,
	// and persists the new record with a zero registration count. The full
	// record, including the assigned id, is returned.
	CreateEvent(ctx context.Context, call CallContext, maxCapacity uint64, deposit *big.Int, name EventName) (*Event, error)

	// Register checks the event exists, the attached payment is in the base
	// asset, and the amount covers the deposit; then forwards the entire
	// attached amount to the event owner and increments the registration
	// count. Returns the updated record.
	Register(ctx context.Context, call CallContext, eventID uint64) (*Event, error)

	// RegistrationCount returns the stored record unchanged. Unknown ids
	// are rejected with ErrInvalidEventID.
	RegistrationCount(ctx context.Context, eventID uint64) (*Event, error)
}
