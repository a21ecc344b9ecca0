package interfaces

import "context"

// EventStore is the persistent key-value store backing the registry: an
// append-only table of event records keyed by unsigned integer id, plus a
// monotonically increasing id counter. Records are never deleted.
//
// Implementations must be safe for concurrent use and must assign ids
// atomically with the insert, so two concurrent creates can never observe
// the same id.
type EventStore interface {
	// NextID returns the id the next inserted event will receive. The
	// counter starts at 0 and only ever advances.
	NextID(ctx context.Context) (uint64, error)

	// Insert assigns the next id to ev, persists the record under that id,
	// and advances the counter by one. The assigned id is returned and
	// written into ev.ID.
	Insert(ctx context.Context, ev *Event) (uint64, error)

	// Get returns a copy of the record stored under id, or ErrEventNotFound.
	Get(ctx context.Context, id uint64) (*Event, error)

	// Update rewrites the record stored under ev.ID. Only mutable fields
	// (the registration count) are expected to change. Returns
	// ErrEventNotFound if the id was never issued.
	Update(ctx context.Context, ev *Event) error

	// Close releases any resources held by the store.
	Close() error
}
