package faucet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// EngineConfig holds the faucet's fixed identity.
type EngineConfig struct {
	// Pool is the ledger account the faucet dispenses from.
	Pool ledger.Address

	// Owner may adjust parameters and sweep the pool.
	Owner ledger.Address

	// Asset is the asset type the faucet dispenses.
	Asset ledger.Asset
}

// Engine is the rate-limited dispenser. Mutations are serialized through a
// single lock and the account record moves to its post-claim value before
// the ledger transfer runs.
type Engine struct {
	mu    sync.Mutex
	store Store
	book  ledger.AssetLedger
	clock ledger.Clock
	cfg   EngineConfig
}

// NewEngine creates a faucet engine. If no parameters are persisted yet,
// defaults is validated and written; otherwise the stored parameters win.
func NewEngine(store Store, book ledger.AssetLedger, clock ledger.Clock, cfg EngineConfig, defaults Params) (*Engine, error) {
	if _, err := store.Params(); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err := validateParams(defaults); err != nil {
			return nil, err
		}
		if err := store.PutParams(&defaults); err != nil {
			return nil, err
		}
	}
	return &Engine{store: store, book: book, clock: clock, cfg: cfg}, nil
}

func validateParams(p Params) error {
	if p.ClaimAmount == 0 {
		return fmt.Errorf("%w: zero claim amount", ErrInvalidParam)
	}
	if p.CooldownPeriod < 0 {
		return fmt.Errorf("%w: negative cooldown", ErrInvalidParam)
	}
	if p.MaxClaimPerAddress < p.ClaimAmount {
		return fmt.Errorf("%w: max claim below claim amount", ErrInvalidParam)
	}
	return nil
}

// Claim dispenses the claim amount to addr if its cooldown has elapsed, its
// lifetime allowance permits, and the pool can cover it.
func (e *Engine) Claim(addr ledger.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	p, err := e.store.Params()
	if err != nil {
		return 0, err
	}

	acct, err := e.store.Account(addr)
	if errors.Is(err, ErrNotFound) {
		acct = &Account{Address: addr}
	} else if err != nil {
		return 0, err
	}

	if acct.LastClaimTime > 0 && now < acct.LastClaimTime+p.CooldownPeriod {
		return 0, fmt.Errorf("%w: next claim at %d", ErrCooldownActive, acct.LastClaimTime+p.CooldownPeriod)
	}
	if acct.TotalClaimed+p.ClaimAmount > p.MaxClaimPerAddress {
		return 0, fmt.Errorf("%w: claimed %d of %d", ErrMaxClaimExceeded, acct.TotalClaimed, p.MaxClaimPerAddress)
	}
	pool, err := e.book.BalanceOf(e.cfg.Asset, e.cfg.Pool)
	if err != nil {
		return 0, err
	}
	if pool < p.ClaimAmount {
		return 0, fmt.Errorf("%w: pool has %d, need %d", ErrInsufficientPool, pool, p.ClaimAmount)
	}

	prev := *acct
	acct.LastClaimTime = now
	acct.TotalClaimed += p.ClaimAmount
	if err := e.store.PutAccount(acct); err != nil {
		return 0, fmt.Errorf("faucet: persist failed: %w", err)
	}
	if err := e.book.Transfer(e.cfg.Asset, e.cfg.Pool, addr, p.ClaimAmount); err != nil {
		*acct = prev
		_ = e.store.PutAccount(acct)
		return 0, fmt.Errorf("faucet: payout failed: %w", err)
	}
	return p.ClaimAmount, nil
}

// SetClaimAmount updates the per-claim amount. Owner only.
func (e *Engine) SetClaimAmount(caller ledger.Address, amount uint64) error {
	return e.updateParams(caller, func(p *Params) { p.ClaimAmount = amount })
}

// SetCooldown updates the per-address cooldown in seconds. Owner only.
func (e *Engine) SetCooldown(caller ledger.Address, seconds int64) error {
	return e.updateParams(caller, func(p *Params) { p.CooldownPeriod = seconds })
}

// SetMaxClaim updates the lifetime allowance per address. Owner only.
func (e *Engine) SetMaxClaim(caller ledger.Address, amount uint64) error {
	return e.updateParams(caller, func(p *Params) { p.MaxClaimPerAddress = amount })
}

func (e *Engine) updateParams(caller ledger.Address, mutate func(*Params)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	p, err := e.store.Params()
	if err != nil {
		return err
	}
	mutate(p)
	if err := validateParams(*p); err != nil {
		return err
	}
	return e.store.PutParams(p)
}

// WithdrawPool transfers amount from the pool to the owner; amount 0 sweeps
// the entire pool. Never transfers more than the current balance.
func (e *Engine) WithdrawPool(caller ledger.Address, amount uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.cfg.Owner {
		return 0, ErrNotOwner
	}
	pool, err := e.book.BalanceOf(e.cfg.Asset, e.cfg.Pool)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		amount = pool
	}
	if amount > pool {
		return 0, fmt.Errorf("%w: pool has %d, need %d", ErrInsufficientPool, pool, amount)
	}
	if amount == 0 {
		return 0, nil
	}
	if err := e.book.Transfer(e.cfg.Asset, e.cfg.Pool, e.cfg.Owner, amount); err != nil {
		return 0, fmt.Errorf("faucet: pool withdrawal failed: %w", err)
	}
	return amount, nil
}

// Account returns the claim history for addr; addresses that never claimed
// have a zero history.
func (e *Engine) Account(addr ledger.Address) (*Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct, err := e.store.Account(addr)
	if errors.Is(err, ErrNotFound) {
		return &Account{Address: addr}, nil
	}
	return acct, err
}

// Params returns the current dispensing parameters.
func (e *Engine) Params() (*Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Params()
}

// PoolBalance returns the pool's current ledger balance.
func (e *Engine) PoolBalance() (uint64, error) {
	return e.book.BalanceOf(e.cfg.Asset, e.cfg.Pool)
}
