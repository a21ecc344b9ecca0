package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// RSVPRegistry implements interfaces.EventRegistry on top of an event store
// and a value-transfer ledger.
type RSVPRegistry struct {
	store  interfaces.EventStore
	ledger interfaces.Ledger
	asset  interfaces.Asset
	log    *slog.Logger

	// mu serializes mutating operations so each one observes the effect of
	// all previously committed ones, matching the single-writer transaction
	// model of the original contract environment.
	mu sync.Mutex
}

// New creates a registry accepting payments in the native base asset.
func New(store interfaces.EventStore, ledger interfaces.Ledger, log *slog.Logger) *RSVPRegistry {
	return NewWithAsset(store, ledger, interfaces.NativeAsset, log)
}

// NewWithAsset creates a registry accepting payments in the given asset.
func NewWithAsset(store interfaces.EventStore, ledger interfaces.Ledger, asset interfaces.Asset, log *slog.Logger) *RSVPRegistry {
	return &RSVPRegistry{
		store:  store,
		ledger: ledger,
		asset:  asset,
		log:    log,
	}
}

// CreateEvent assigns the next id, records call.Caller as owner, and
// persists the new record with a zero registration count.
//
// MaxCapacity is informational only: registration is never capped against
// it. Any payment attached to the call is ignored, not collected.
func (r *RSVPRegistry) CreateEvent(ctx context.Context, call interfaces.CallContext, maxCapacity uint64, deposit *big.Int, name interfaces.EventName) (*interfaces.Event, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	if deposit == nil {
		deposit = new(big.Int)
	}
	if deposit.Sign() < 0 {
		return nil, fmt.Errorf("negative deposit: %s", deposit)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ev := &interfaces.Event{
		MaxCapacity:       maxCapacity,
		Deposit:           new(big.Int).Set(deposit),
		Owner:             call.Caller,
		Name:              name,
		RegistrationCount: 0,
	}

	id, err := r.store.Insert(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	r.log.Info("Event created",
		slog.Uint64("eventID", id),
		slog.String("owner", ev.Owner.Hex()),
		slog.String("deposit", ev.Deposit.String()),
		slog.String("name", name.String()))

	return ev, nil
}

// Register validates the call against the stored record and, on success,
// forwards the entire attached amount (not just the deposit) to the event
// owner and increments the registration count by one.
//
// Preconditions are checked in order: the event id must have been issued,
// the payment asset must match the accepted base asset, and the amount must
// cover the deposit. Any failure, including a failed transfer, aborts the
// call before the count is mutated or the record rewritten.
func (r *RSVPRegistry) Register(ctx context.Context, call interfaces.CallContext, eventID uint64) (*interfaces.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, err := r.store.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, interfaces.ErrEventNotFound) {
			return nil, fmt.Errorf("%w: %d", interfaces.ErrInvalidEventID, eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}

	if call.Payment.Asset != r.asset {
		return nil, fmt.Errorf("%w: got %q, want %q", interfaces.ErrWrongAsset, call.Payment.Asset, r.asset)
	}

	amount := call.Payment.AmountOrZero()
	if amount.Cmp(ev.Deposit) < 0 {
		return nil, fmt.Errorf("%w: attached %s, deposit %s", interfaces.ErrInsufficientPayment, amount, ev.Deposit)
	}

	if err := r.ledger.Transfer(ctx, call.Caller, ev.Owner, amount, call.Payment.Asset); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrTransferFailed, err)
	}

	ev.RegistrationCount++
	if err := r.store.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("persisting registration for event %d: %w", eventID, err)
	}

	r.log.Info("Registration recorded",
		slog.Uint64("eventID", eventID),
		slog.String("registrant", call.Caller.Hex()),
		slog.String("amount", amount.String()),
		slog.Uint64("count", ev.RegistrationCount))

	return ev, nil
}

// RegistrationCount is a pure read: it returns the stored record unchanged.
// Unlike the original contract, unknown ids are rejected rather than served
// a zero record.
func (r *RSVPRegistry) RegistrationCount(ctx context.Context, eventID uint64) (*interfaces.Event, error) {
	ev, err := r.store.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, interfaces.ErrEventNotFound) {
			return nil, fmt.Errorf("%w: %d", interfaces.ErrInvalidEventID, eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	return ev, nil
}
