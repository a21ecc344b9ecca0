package ledger

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// MockLedger mocks the interfaces.Ledger interface.
type MockLedger struct {
	mock.Mock
}

// Transfer mocks the Transfer method.
func (m *MockLedger) Transfer(ctx context.Context, from, to interfaces.Identity, amount *big.Int, asset interfaces.Asset) error {
	args := m.Called(ctx, from, to, amount, asset)
	return args.Error(0)
}

// BalanceOf mocks the BalanceOf method.
func (m *MockLedger) BalanceOf(ctx context.Context, account interfaces.Identity, asset interfaces.Asset) (*big.Int, error) {
	args := m.Called(ctx, account, asset)
	bal, _ := args.Get(0).(*big.Int)
	return bal, args.Error(1)
}
