package transfer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/payflowlabs/libpayflow-go/fee"
	"github.com/payflowlabs/libpayflow-go/ledger"
)

const (
	// DefaultMinExpiryWindow is the minimum time a transfer must remain
	// claimable, in seconds (5 minutes).
	DefaultMinExpiryWindow = 300

	// DefaultMaxExpiryWindow is the longest a transfer may stay open, in
	// seconds (30 days). Excessively long windows keep the sender's funds
	// locked for an unreasonable duration.
	DefaultMaxExpiryWindow = 30 * 24 * 3600

	// DefaultExpiryWindow is the expiry applied when a caller passes 0
	// (24 hours).
	DefaultExpiryWindow = 24 * 3600
)

// EngineConfig holds the accounts and limits of a transfer engine.
type EngineConfig struct {
	// Escrow is the ledger account holding open transfer deposits.
	Escrow ledger.Address

	// FeeCollector receives the protocol fee at creation.
	FeeCollector ledger.Address

	// MinExpiryWindow and MaxExpiryWindow bound how far beyond now a
	// transfer's expiry may fall, in seconds. Zero selects the defaults.
	MinExpiryWindow int64
	MaxExpiryWindow int64
}

// Engine is the conditional transfer state machine. All mutations are
// serialized through a single lock; the stored status flips to its terminal
// value before the ledger transfer runs, so a concurrent call against the
// same id observes the post-transition state and is rejected by the status
// gate alone.
type Engine struct {
	mu    sync.Mutex
	store Store
	book  ledger.AssetLedger
	clock ledger.Clock
	fees  fee.Policy
	cfg   EngineConfig
}

// NewEngine creates a transfer engine. Zero expiry window bounds in cfg are
// replaced with the defaults.
func NewEngine(store Store, book ledger.AssetLedger, clock ledger.Clock, fees fee.Policy, cfg EngineConfig) *Engine {
	if cfg.MinExpiryWindow == 0 {
		cfg.MinExpiryWindow = DefaultMinExpiryWindow
	}
	if cfg.MaxExpiryWindow == 0 {
		cfg.MaxExpiryWindow = DefaultMaxExpiryWindow
	}
	return &Engine{store: store, book: book, clock: clock, fees: fees, cfg: cfg}
}

// CreateDirect escrows a transfer claimable only by recipient. An empty
// claimCode leaves the transfer ungated; expiry 0 selects the default
// window. The sender is debited the gross amount immediately and the fee is
// routed to the collector, leaving exactly the net amount in escrow.
func (e *Engine) CreateDirect(sender, recipient ledger.Address, asset ledger.Asset, gross uint64, expiry int64, claimCode string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("%w: empty recipient", ErrInvalidAddress)
	}
	return e.create(sender, recipient, asset, gross, expiry, claimCode, false)
}

// CreateLink escrows a transfer with no fixed recipient: anyone holding the
// id (and the claim code, if set) may claim it.
func (e *Engine) CreateLink(sender ledger.Address, asset ledger.Asset, gross uint64, expiry int64, claimCode string) (string, error) {
	return e.create(sender, "", asset, gross, expiry, claimCode, true)
}

func (e *Engine) create(sender, recipient ledger.Address, asset ledger.Asset, gross uint64, expiry int64, claimCode string, isLink bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	if sender == "" {
		return "", fmt.Errorf("%w: empty sender", ErrInvalidAddress)
	}
	if gross == 0 {
		return "", ErrInvalidAmount
	}
	if expiry == 0 {
		expiry = now + DefaultExpiryWindow
	}
	if expiry < now+e.cfg.MinExpiryWindow || expiry > now+e.cfg.MaxExpiryWindow {
		return "", fmt.Errorf("%w: expiry %d outside [now+%d, now+%d]",
			ErrInvalidExpiry, expiry, e.cfg.MinExpiryWindow, e.cfg.MaxExpiryWindow)
	}

	net, feeAmt := e.fees.Split(gross)
	if net == 0 {
		return "", fmt.Errorf("%w: amount consumed entirely by fee", ErrInvalidAmount)
	}

	id, err := deriveID(sender, recipient, asset, gross, expiry, now)
	if err != nil {
		return "", err
	}
	if _, err := e.store.Get(id); err == nil {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	t := &Transfer{
		ID:          id,
		Sender:      sender,
		Recipient:   recipient,
		Asset:       asset,
		GrossAmount: gross,
		NetAmount:   net,
		Expiry:      expiry,
		CreatedAt:   now,
		Status:      StatusPending,
		IsLink:      isLink,
	}
	if claimCode != "" {
		hash, salt, err := hashClaimCode(claimCode)
		if err != nil {
			return "", err
		}
		t.HasCode = true
		t.CodeHash = hash
		t.CodeSalt = salt
	}

	if err := e.book.Transfer(asset, sender, e.cfg.Escrow, gross); err != nil {
		return "", fmt.Errorf("transfer: escrow deposit failed: %w", err)
	}
	if feeAmt > 0 {
		if err := e.book.Transfer(asset, e.cfg.Escrow, e.cfg.FeeCollector, feeAmt); err != nil {
			// Return the full deposit to the sender; nothing was recorded.
			_ = e.book.Transfer(asset, e.cfg.Escrow, sender, gross)
			return "", fmt.Errorf("transfer: fee collection failed: %w", err)
		}
	}

	if err := e.store.Put(t); err != nil {
		// Nothing was recorded, so the sender gets the gross back: the net
		// from escrow and the fee from the collector.
		_ = e.book.Transfer(asset, e.cfg.Escrow, sender, net)
		if feeAmt > 0 {
			_ = e.book.Transfer(asset, e.cfg.FeeCollector, sender, feeAmt)
		}
		return "", fmt.Errorf("transfer: persist failed: %w", err)
	}
	return id, nil
}

// Claim releases the escrowed net amount to caller. For direct transfers
// the caller must be the intended recipient; for gated transfers the
// provided code must match. A transfer is claimable exactly once.
func (e *Engine) Claim(caller ledger.Address, id, providedCode string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now()

	if t.Status != StatusPending {
		return 0, fmt.Errorf("%w: status %s", ErrNotClaimable, t.Status)
	}
	if now > t.Expiry {
		return 0, fmt.Errorf("%w: expired at %d", ErrNotClaimable, t.Expiry)
	}
	if t.HasCode && !verifyClaimCode(providedCode, t.CodeHash, t.CodeSalt) {
		return 0, ErrInvalidClaimCode
	}
	if t.Recipient != "" && caller != t.Recipient {
		return 0, ErrNotIntendedRecipient
	}

	// Flip to the terminal state before moving funds. A reentrant claim
	// against the same id now fails the status gate.
	t.Status = StatusClaimed
	if err := e.store.Put(t); err != nil {
		return 0, fmt.Errorf("transfer: persist failed: %w", err)
	}
	if err := e.book.Transfer(t.Asset, e.cfg.Escrow, caller, t.NetAmount); err != nil {
		t.Status = StatusPending
		_ = e.store.Put(t)
		return 0, fmt.Errorf("transfer: payout failed: %w", err)
	}
	return t.NetAmount, nil
}

// Refund returns the escrowed net amount to the sender after expiry.
func (e *Engine) Refund(caller ledger.Address, id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now()

	if t.Status != StatusPending {
		return 0, fmt.Errorf("%w: status %s", ErrNotRefundable, t.Status)
	}
	if now <= t.Expiry {
		return 0, fmt.Errorf("%w: claimable until %d", ErrNotExpired, t.Expiry)
	}
	if caller != t.Sender {
		return 0, ErrNotSender
	}

	t.Status = StatusRefunded
	if err := e.store.Put(t); err != nil {
		return 0, fmt.Errorf("transfer: persist failed: %w", err)
	}
	if err := e.book.Transfer(t.Asset, e.cfg.Escrow, t.Sender, t.NetAmount); err != nil {
		t.Status = StatusPending
		_ = e.store.Put(t)
		return 0, fmt.Errorf("transfer: refund payout failed: %w", err)
	}
	return t.NetAmount, nil
}

// IsClaimable reports whether the transfer is still open for claiming.
func (e *Engine) IsClaimable(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.store.Get(id)
	if err != nil {
		return false, err
	}
	return t.Status == StatusPending && e.clock.Now() <= t.Expiry, nil
}

// Get returns the transfer record for id.
func (e *Engine) Get(id string) (*Transfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// ListBySender returns all transfers created by addr.
func (e *Engine) ListBySender(addr ledger.Address) ([]*Transfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListBySender(addr)
}
