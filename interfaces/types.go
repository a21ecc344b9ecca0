package interfaces

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is an opaque principal: a caller or an event owner. Payments from
// registrants are routed to the owner identity with no further authorization.
type Identity = common.Address

// ZeroIdentity is the all-zero identity. It is never a valid transfer target.
var ZeroIdentity = Identity{}

// NewIdentityFromHex parses a 20-byte identity from a hex string, with or
// without a 0x prefix.
func NewIdentityFromHex(s string) (Identity, error) {
	if !common.IsHexAddress(s) {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	return common.HexToAddress(s), nil
}

// Asset identifies the currency of an attached payment.
type Asset string

// NativeAsset is the single base asset accepted for deposits.
const NativeAsset Asset = "ETH"

// String returns the asset symbol.
func (a Asset) String() string {
	return string(a)
}

// MaxEventNameLen is the byte width of the event name field. The registry
// interface accepts at most this many bytes and rejects longer names.
const MaxEventNameLen = 32

// EventName is a bounded-length text label for an event.
type EventName string

// NewEventName validates a raw string as an event name. Names longer than
// MaxEventNameLen bytes are rejected, not truncated.
func NewEventName(s string) (EventName, error) {
	if len(s) > MaxEventNameLen {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrNameTooLong, len(s), MaxEventNameLen)
	}
	if strings.ContainsRune(s, 0) {
		return "", fmt.Errorf("%w: embedded NUL", ErrInvalidName)
	}
	return EventName(s), nil
}

// String returns the name as a plain string.
func (n EventName) String() string {
	return string(n)
}

// Validate re-checks the name bounds.
func (n EventName) Validate() error {
	_, err := NewEventName(string(n))
	return err
}

// Payment is a value attached to a call: an amount of some asset.
type Payment struct {
	Amount *big.Int
	Asset  Asset
}

// AmountOrZero returns the attached amount, treating nil as zero.
func (p Payment) AmountOrZero() *big.Int {
	if p.Amount == nil {
		return new(big.Int)
	}
	return p.Amount
}

// CallContext carries the ambient facts of a single registry invocation:
// the identity submitting the call and the payment attached to it. It is
// threaded explicitly into each operation so the core stays testable
// without a full execution environment.
type CallContext struct {
	Caller  Identity
	Payment Payment
}

// Event is a registrable unit: a capacity, a required deposit, an owner to
// route payments to, and a label. ID, Owner, Name and Deposit are fixed at
// creation; only RegistrationCount changes afterwards.
type Event struct {
	ID                uint64
	MaxCapacity       uint64
	Deposit           *big.Int
	Owner             Identity
	Name              EventName
	RegistrationCount uint64
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	dup := *e
	if e.Deposit != nil {
		dup.Deposit = new(big.Int).Set(e.Deposit)
	}
	return &dup
}
