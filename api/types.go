package api

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// CallerAddressHeader carries the caller identity as a 0x-prefixed hex
// address. The hosting environment (wallet, gateway) is responsible for
// resolving and authenticating it; the registry only routes payments by it.
const CallerAddressHeader = "X-Caller-Address"

// Reason codes surfaced in ErrorResponse.Code.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeInvalidEventID      = "invalid_event_id"
	CodeWrongAsset          = "wrong_asset"
	CodeInsufficientPayment = "insufficient_payment"
	CodeTransferFailed      = "transfer_failed"
	CodeInternalError       = "internal_error"
)

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	MaxCapacity uint64       `json:"max_capacity"`
	Deposit     *hexutil.Big `json:"deposit"`
	Name        string       `json:"name"`
}

// RegisterRequest is the payload for registering for an event. Amount and
// Asset describe the payment attached to the call.
type RegisterRequest struct {
	Amount *hexutil.Big `json:"amount"`
	Asset  string       `json:"asset"`
}

// EventResponse is the full event record returned by every operation.
type EventResponse struct {
	ID                uint64              `json:"id"`
	MaxCapacity       uint64              `json:"max_capacity"`
	Deposit           *hexutil.Big        `json:"deposit"`
	Owner             interfaces.Identity `json:"owner"`
	Name              string              `json:"name"`
	RegistrationCount uint64              `json:"registration_count"`
}

// ErrorResponse is the structured rejection envelope for failed calls.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEventResponse converts a domain event record into its wire form.
func NewEventResponse(ev *interfaces.Event) EventResponse {
	return EventResponse{
		ID:                ev.ID,
		MaxCapacity:       ev.MaxCapacity,
		Deposit:           (*hexutil.Big)(ev.Deposit),
		Owner:             ev.Owner,
		Name:              ev.Name.String(),
		RegistrationCount: ev.RegistrationCount,
	}
}
