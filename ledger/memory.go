package ledger

import (
	"fmt"
	"sync"
)

// MemoryLedger is an in-process AssetLedger keeping balances in a map. It is
// the reference implementation used by tests and the simulator; production
// deployments supply their own ledger.
//
// TransferHook, when set, is consulted before any balance moves and may
// reject the transfer. It exists so tests can inject ledger failures at
// precise points.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[Asset]map[Address]uint64

	TransferHook func(asset Asset, from, to Address, amount uint64) error
}

// Compile-time interface check.
var _ AssetLedger = (*MemoryLedger)(nil)

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[Asset]map[Address]uint64)}
}

// Mint credits holder with amount, creating the asset book if needed.
func (l *MemoryLedger) Mint(asset Asset, holder Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	book := l.balances[asset]
	if book == nil {
		book = make(map[Address]uint64)
		l.balances[asset] = book
	}
	book[holder] += amount
}

// Transfer moves amount from one balance to another. The whole amount moves
// or nothing does.
func (l *MemoryLedger) Transfer(asset Asset, from, to Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if from == "" || to == "" {
		return ErrInvalidAddress
	}
	if hook := l.TransferHook; hook != nil {
		if err := hook(asset, from, to, amount); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	book := l.balances[asset]
	if book == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}
	if book[from] < amount {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientFunds, from, book[from], amount)
	}
	book[from] -= amount
	book[to] += amount
	return nil
}

// BalanceOf reports the holder's balance. Unknown assets and holders have a
// zero balance.
func (l *MemoryLedger) BalanceOf(asset Asset, holder Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[asset][holder], nil
}
