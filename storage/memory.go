package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// MemoryStore is a volatile in-process event store. It is the default for
// tests and development deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[uint64]*interfaces.Event
	nextID uint64
}

// NewMemoryStore creates an empty store with the id counter at zero.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[uint64]*interfaces.Event)}
}

// NextID returns the id the next inserted event will receive.
func (s *MemoryStore) NextID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}

// Insert assigns the next id to ev, stores a copy, and advances the counter.
func (s *MemoryStore) Insert(ctx context.Context, ev *interfaces.Event) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	ev.ID = id
	s.events[id] = ev.Clone()
	s.nextID++
	return id, nil
}

// Get returns a copy of the record under id, or ErrEventNotFound.
func (s *MemoryStore) Get(ctx context.Context, id uint64) (*interfaces.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, id)
	}
	return ev.Clone(), nil
}

// Update rewrites an existing record.
func (s *MemoryStore) Update(ctx context.Context, ev *interfaces.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.ID]; !ok {
		return fmt.Errorf("%w: id %d", interfaces.ErrEventNotFound, ev.ID)
	}
	s.events[ev.ID] = ev.Clone()
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
