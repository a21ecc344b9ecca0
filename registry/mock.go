package registry

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// MockRegistry mocks the interfaces.EventRegistry interface.
type MockRegistry struct {
	mock.Mock
}

// CreateEvent mocks the CreateEvent method.
func (m *MockRegistry) CreateEvent(ctx context.Context, call interfaces.CallContext, maxCapacity uint64, deposit *big.Int, name interfaces.EventName) (*interfaces.Event, error) {
	args := m.Called(ctx, call, maxCapacity, deposit, name)
	ev, _ := args.Get(0).(*interfaces.Event)
	return ev, args.Error(1)
}

// Register mocks the Register method.
func (m *MockRegistry) Register(ctx context.Context, call interfaces.CallContext, eventID uint64) (*interfaces.Event, error) {
	args := m.Called(ctx, call, eventID)
	ev, _ := args.Get(0).(*interfaces.Event)
	return ev, args.Error(1)
}

// RegistrationCount mocks the RegistrationCount method.
func (m *MockRegistry) RegistrationCount(ctx context.Context, eventID uint64) (*interfaces.Event, error) {
	args := m.Called(ctx, eventID)
	ev, _ := args.Get(0).(*interfaces.Event)
	return ev, args.Error(1)
}
