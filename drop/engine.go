package drop

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/payflowlabs/libpayflow-go/fee"
	"github.com/payflowlabs/libpayflow-go/ledger"
)

// EngineConfig holds the accounts of a drop engine.
type EngineConfig struct {
	// Escrow is the ledger account holding open drop deposits.
	Escrow ledger.Address

	// FeeCollector receives the protocol fee at creation.
	FeeCollector ledger.Address
}

// Engine is the drop state machine. Mutations are serialized through a
// single lock and the stored record moves to its post-transition value
// before the ledger transfer runs.
type Engine struct {
	mu    sync.Mutex
	store Store
	book  ledger.AssetLedger
	clock ledger.Clock
	fees  fee.Policy
	rand  Rand
	cfg   EngineConfig
}

// NewEngine creates a drop engine. rnd sizes random-mode shares; creating a
// random drop on an engine without one fails with ErrNoRandSource.
func NewEngine(store Store, book ledger.AssetLedger, clock ledger.Clock, fees fee.Policy, rnd Rand, cfg EngineConfig) *Engine {
	return &Engine{store: store, book: book, clock: clock, fees: fees, rand: rnd, cfg: cfg}
}

// Create escrows a drop distributing the net amount among recipientCount
// claimants. Fixed drops pay net/recipientCount per claim, with the integer
// remainder going to the final claimant; random drops pay pseudo-random
// shares. Every claimant must be able to receive at least one unit.
func (e *Engine) Create(creator ledger.Address, asset ledger.Asset, gross uint64, recipientCount uint32, isRandom bool, expiryTime int64, message string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	if creator == "" {
		return "", ErrInvalidAddress
	}
	if gross == 0 {
		return "", ErrInvalidAmount
	}
	if recipientCount == 0 {
		return "", ErrInvalidRecipientCount
	}
	if expiryTime <= now {
		return "", fmt.Errorf("%w: expiry %d not after now %d", ErrInvalidExpiry, expiryTime, now)
	}
	if isRandom && e.rand == nil {
		return "", ErrNoRandSource
	}

	net, feeAmt := e.fees.Split(gross)
	if net == 0 {
		return "", fmt.Errorf("%w: amount consumed entirely by fee", ErrInvalidAmount)
	}
	if net < uint64(recipientCount) {
		return "", fmt.Errorf("%w: %d units cannot cover %d recipients", ErrInvalidRecipientCount, net, recipientCount)
	}

	d := &Drop{
		ID:              uuid.NewString(),
		Creator:         creator,
		Asset:           asset,
		GrossAmount:     gross,
		TotalAmount:     net,
		RemainingAmount: net,
		RecipientCount:  recipientCount,
		IsRandom:        isRandom,
		ExpiryTime:      expiryTime,
		Message:         message,
		Active:          true,
		ClaimedBy:       make(map[ledger.Address]uint64),
		CreatedAt:       now,
	}
	if !isRandom {
		d.PerRecipientAmount = net / uint64(recipientCount)
	}

	if err := e.book.Transfer(asset, creator, e.cfg.Escrow, gross); err != nil {
		return "", fmt.Errorf("drop: escrow deposit failed: %w", err)
	}
	if feeAmt > 0 {
		if err := e.book.Transfer(asset, e.cfg.Escrow, e.cfg.FeeCollector, feeAmt); err != nil {
			_ = e.book.Transfer(asset, e.cfg.Escrow, creator, gross)
			return "", fmt.Errorf("drop: fee collection failed: %w", err)
		}
	}
	if err := e.store.Put(d); err != nil {
		// Nothing was recorded, so the creator gets the gross back: the net
		// from escrow and the fee from the collector.
		_ = e.book.Transfer(asset, e.cfg.Escrow, creator, net)
		if feeAmt > 0 {
			_ = e.book.Transfer(asset, e.cfg.FeeCollector, creator, feeAmt)
		}
		return "", fmt.Errorf("drop: persist failed: %w", err)
	}
	return d.ID, nil
}

// claimAmount sizes the caller's share. The final claimant always receives
// the whole remainder, which also absorbs the fixed-mode integer remainder.
func (e *Engine) claimAmount(d *Drop) uint64 {
	slots := int64(d.RecipientCount - d.ClaimedCount)
	if slots == 1 {
		return d.RemainingAmount
	}
	if !d.IsRandom {
		return d.PerRecipientAmount
	}

	// Random share in [1, 2*avg], bounded so every later claimant can
	// still receive at least one unit.
	remaining := int64(d.RemainingAmount)
	bound := 2 * (remaining / slots)
	if hi := remaining - (slots - 1); bound > hi {
		bound = hi
	}
	if bound < 1 {
		bound = 1
	}
	return uint64(1 + e.rand.Int63n(bound))
}

// Claim pays the caller their share of the drop. Each address claims at
// most once and the creator is excluded.
func (e *Engine) Claim(caller ledger.Address, id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now()

	if !d.Active {
		return 0, ErrInactive
	}
	if now >= d.ExpiryTime {
		return 0, fmt.Errorf("%w: at %d", ErrExpired, d.ExpiryTime)
	}
	if caller == d.Creator {
		return 0, ErrCallerIsCreator
	}
	if d.HasClaimed(caller) {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyClaimed, caller)
	}
	if d.ClaimedCount >= d.RecipientCount {
		return 0, ErrExhausted
	}

	amount := e.claimAmount(d)

	prev := *d
	prevClaims := make(map[ledger.Address]uint64, len(d.ClaimedBy))
	for k, v := range d.ClaimedBy {
		prevClaims[k] = v
	}

	d.ClaimedBy[caller] = amount
	d.RemainingAmount -= amount
	d.ClaimedCount++
	if d.ClaimedCount == d.RecipientCount {
		d.Active = false
	}
	if err := e.store.Put(d); err != nil {
		return 0, fmt.Errorf("drop: persist failed: %w", err)
	}
	if err := e.book.Transfer(d.Asset, e.cfg.Escrow, caller, amount); err != nil {
		*d = prev
		d.ClaimedBy = prevClaims
		_ = e.store.Put(d)
		return 0, fmt.Errorf("drop: payout failed: %w", err)
	}
	return amount, nil
}

// RefundExpired sweeps the unclaimed remainder back to the creator after
// expiry and deactivates the drop.
func (e *Engine) RefundExpired(caller ledger.Address, id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now()

	if caller != d.Creator {
		return 0, ErrNotCreator
	}
	if !d.Active {
		return 0, ErrInactive
	}
	if now < d.ExpiryTime {
		return 0, fmt.Errorf("%w: claimable until %d", ErrNotExpired, d.ExpiryTime)
	}

	swept := d.RemainingAmount

	prev := *d
	d.Active = false
	d.RemainingAmount = 0
	if err := e.store.Put(d); err != nil {
		return 0, fmt.Errorf("drop: persist failed: %w", err)
	}
	if swept > 0 {
		if err := e.book.Transfer(d.Asset, e.cfg.Escrow, d.Creator, swept); err != nil {
			*d = prev
			_ = e.store.Put(d)
			return 0, fmt.Errorf("drop: sweep failed: %w", err)
		}
	}
	return swept, nil
}

// Get returns the drop record for id.
func (e *Engine) Get(id string) (*Drop, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// ListByCreator returns all drops created by addr.
func (e *Engine) ListByCreator(addr ledger.Address) ([]*Drop, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListByCreator(addr)
}
