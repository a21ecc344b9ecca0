package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/openrsvp/rsvp-registry/interfaces"
)

// Transfer failure conditions.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrInvalidAmount     = errors.New("invalid amount")
)

type balanceKey struct {
	account interfaces.Identity
	asset   interfaces.Asset
}

// MemoryLedger implements interfaces.Ledger with in-process account
// balances. A transfer either moves the full amount or fails without
// touching either balance.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[balanceKey]*big.Int
}

// NewMemoryLedger creates an empty ledger. Accounts are funded with Credit.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[balanceKey]*big.Int)}
}

// Credit adds amount of asset to the account's balance. Used to seed test
// and development accounts.
func (l *MemoryLedger) Credit(account interfaces.Identity, asset interfaces.Asset, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(account, asset, amount)
}

// Transfer moves amount of asset from one identity to another. It fails on
// a zero recipient, a nil or negative amount, or an insufficient sender
// balance, leaving both balances untouched.
func (l *MemoryLedger) Transfer(ctx context.Context, from, to interfaces.Identity, amount *big.Int, asset interfaces.Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == interfaces.ZeroIdentity {
		return fmt.Errorf("%w: zero address", ErrInvalidRecipient)
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if amount.Sign() == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fromKey := balanceKey{from, asset}
	have, ok := l.balances[fromKey]
	if !ok || have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s has %s, needs %s", ErrInsufficientFunds, from.Hex(), l.balanceLocked(fromKey), amount)
	}

	have.Sub(have, amount)
	l.add(to, asset, amount)
	return nil
}

// BalanceOf reports the account's balance of the asset. Unknown accounts
// have a zero balance.
func (l *MemoryLedger) BalanceOf(ctx context.Context, account interfaces.Identity, asset interfaces.Asset) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balanceLocked(balanceKey{account, asset})), nil
}

func (l *MemoryLedger) add(account interfaces.Identity, asset interfaces.Asset, amount *big.Int) {
	key := balanceKey{account, asset}
	if have, ok := l.balances[key]; ok {
		have.Add(have, amount)
		return
	}
	l.balances[key] = new(big.Int).Set(amount)
}

func (l *MemoryLedger) balanceLocked(key balanceKey) *big.Int {
	if have, ok := l.balances[key]; ok {
		return have
	}
	return new(big.Int)
}
