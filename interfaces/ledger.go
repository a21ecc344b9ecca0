package interfaces

import (
	"context"
	"math/big"
)

// Ledger is the value-transfer primitive the registry uses to forward
// attached payments to event owners. A Transfer either moves the full
// amount or fails without effect; the registry relies on that to keep the
// payment and the registration count increment atomic.
type Ledger interface {
	// Transfer moves amount of asset from one identity to another.
	Transfer(ctx context.Context, from, to Identity, amount *big.Int, asset Asset) error

	// BalanceOf reports the identity's current balance of the asset.
	BalanceOf(ctx context.Context, id Identity, asset Asset) (*big.Int, error)
}
