package stream

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/payflowlabs/libpayflow-go/fee"
	"github.com/payflowlabs/libpayflow-go/ledger"
)

// EngineConfig holds the accounts of a stream engine.
type EngineConfig struct {
	// Escrow is the ledger account holding open stream deposits.
	Escrow ledger.Address

	// FeeCollector receives the protocol fee at creation.
	FeeCollector ledger.Address
}

// Engine is the payment stream state machine. Mutations are serialized
// through a single lock and the stored record moves to its post-transition
// value before the ledger transfer runs.
//
// Pause policy: paused time accumulates in PausedAccum and is excluded from
// vesting-eligible elapsed time, so the original start/end window is kept
// and full vesting shifts past EndTime by exactly the paused duration. Pause
// and resume are sender-only.
type Engine struct {
	mu    sync.Mutex
	store Store
	book  ledger.AssetLedger
	clock ledger.Clock
	fees  fee.Policy
	cfg   EngineConfig
}

// NewEngine creates a stream engine.
func NewEngine(store Store, book ledger.AssetLedger, clock ledger.Clock, fees fee.Policy, cfg EngineConfig) *Engine {
	return &Engine{store: store, book: book, clock: clock, fees: fees, cfg: cfg}
}

// Create escrows a stream vesting the net amount to recipient linearly from
// startTime to endTime. startTime 0 starts immediately; a future startTime
// schedules the stream (nothing vests before it). The fee is taken from the
// gross amount up front.
func (e *Engine) Create(sender, recipient ledger.Address, asset ledger.Asset, gross uint64, startTime, endTime int64, milestones []Milestone) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	if recipient == "" || recipient == sender {
		return "", ErrInvalidRecipient
	}
	if sender == "" {
		return "", fmt.Errorf("%w: empty sender", ErrInvalidRecipient)
	}
	if gross == 0 {
		return "", ErrInvalidAmount
	}
	if startTime == 0 {
		startTime = now
	}
	if startTime < now {
		return "", fmt.Errorf("%w: start %d before now %d", ErrInvalidWindow, startTime, now)
	}
	if endTime <= startTime {
		return "", fmt.Errorf("%w: end %d not after start %d", ErrInvalidWindow, endTime, startTime)
	}
	ms := make([]Milestone, len(milestones))
	for i, m := range milestones {
		if m.Percentage < 1 || m.Percentage > 99 {
			return "", fmt.Errorf("%w: percentage %d at index %d", ErrInvalidMilestone, m.Percentage, i)
		}
		ms[i] = Milestone{Percentage: m.Percentage, Description: m.Description}
	}

	net, feeAmt := e.fees.Split(gross)
	if net == 0 {
		return "", fmt.Errorf("%w: amount consumed entirely by fee", ErrInvalidAmount)
	}

	s := &Stream{
		ID:          uuid.NewString(),
		Sender:      sender,
		Recipient:   recipient,
		Asset:       asset,
		GrossAmount: gross,
		TotalAmount: net,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      StatusActive,
		Milestones:  ms,
		CreatedAt:   now,
	}

	if err := e.book.Transfer(asset, sender, e.cfg.Escrow, gross); err != nil {
		return "", fmt.Errorf("stream: escrow deposit failed: %w", err)
	}
	if feeAmt > 0 {
		if err := e.book.Transfer(asset, e.cfg.Escrow, e.cfg.FeeCollector, feeAmt); err != nil {
			_ = e.book.Transfer(asset, e.cfg.Escrow, sender, gross)
			return "", fmt.Errorf("stream: fee collection failed: %w", err)
		}
	}
	if err := e.store.Put(s); err != nil {
		// Nothing was recorded, so the sender gets the gross back: the net
		// from escrow and the fee from the collector.
		_ = e.book.Transfer(asset, e.cfg.Escrow, sender, net)
		if feeAmt > 0 {
			_ = e.book.Transfer(asset, e.cfg.FeeCollector, sender, feeAmt)
		}
		return "", fmt.Errorf("stream: persist failed: %w", err)
	}
	return s.ID, nil
}

// withdrawable returns the vested-but-unpaid balance at time now.
func withdrawable(s *Stream, now int64) uint64 {
	switch s.Status {
	case StatusCanceled:
		return 0
	case StatusCompleted:
		return s.TotalAmount - s.Released
	}
	v := s.VestedAt(now)
	if v <= s.Released {
		// Milestone releases may run ahead of the vesting curve.
		return 0
	}
	return v - s.Released
}

// GetWithdrawable returns the amount the recipient could withdraw now.
func (e *Engine) GetWithdrawable(id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	return withdrawable(s, e.clock.Now()), nil
}

// Withdraw transfers the currently vested, unpaid balance to the recipient.
// When the stream has fully vested and everything is paid out, it completes.
func (e *Engine) Withdraw(caller ledger.Address, id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now()

	if caller != s.Recipient {
		return 0, ErrNotRecipient
	}
	if s.Status == StatusCanceled {
		return 0, fmt.Errorf("%w: status %s", ErrTerminal, s.Status)
	}
	amount := withdrawable(s, now)
	if amount == 0 {
		return 0, ErrNothingToWithdraw
	}

	prev := *s
	s.Released += amount
	if s.Released == s.TotalAmount && s.activeElapsed(now) >= s.EndTime-s.StartTime {
		s.Status = StatusCompleted
	}
	if err := e.store.Put(s); err != nil {
		return 0, fmt.Errorf("stream: persist failed: %w", err)
	}
	if err := e.book.Transfer(s.Asset, e.cfg.Escrow, s.Recipient, amount); err != nil {
		*s = prev
		_ = e.store.Put(s)
		return 0, fmt.Errorf("stream: payout failed: %w", err)
	}
	return amount, nil
}

// Pause suspends vesting. Sender only, Active streams only.
func (e *Engine) Pause(caller ledger.Address, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return err
	}
	if caller != s.Sender {
		return ErrNotSender
	}
	switch s.Status {
	case StatusPaused:
		return fmt.Errorf("%w: already paused", ErrNotActive)
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("%w: status %s", ErrTerminal, s.Status)
	}

	s.Status = StatusPaused
	s.LastPauseStart = e.clock.Now()
	return e.store.Put(s)
}

// Resume restarts vesting, adding the completed pause to the accumulator.
// Sender only, Paused streams only.
func (e *Engine) Resume(caller ledger.Address, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return err
	}
	if caller != s.Sender {
		return ErrNotSender
	}
	if s.Status != StatusPaused {
		return fmt.Errorf("%w: status %s", ErrNotPaused, s.Status)
	}

	s.PausedAccum += e.clock.Now() - s.LastPauseStart
	s.LastPauseStart = 0
	s.Status = StatusActive
	return e.store.Put(s)
}

// ReleaseMilestone pays the milestone's percentage of the net amount to the
// recipient ahead of the vesting curve. Sender only; the payout is capped so
// cumulative releases never exceed the net amount.
func (e *Engine) ReleaseMilestone(caller ledger.Address, id string, index int) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	if caller != s.Sender {
		return 0, ErrNotSender
	}
	if s.Status == StatusCompleted || s.Status == StatusCanceled {
		return 0, fmt.Errorf("%w: status %s", ErrTerminal, s.Status)
	}
	if index < 0 || index >= len(s.Milestones) {
		return 0, fmt.Errorf("%w: index %d out of range", ErrInvalidMilestone, index)
	}
	if s.Milestones[index].Released {
		return 0, fmt.Errorf("%w: index %d", ErrMilestoneReleased, index)
	}

	amount := s.TotalAmount * uint64(s.Milestones[index].Percentage) / 100
	if remaining := s.TotalAmount - s.Released; amount > remaining {
		amount = remaining
	}
	if amount == 0 {
		return 0, ErrNothingToWithdraw
	}

	prev := *s
	prevMilestones := make([]Milestone, len(s.Milestones))
	copy(prevMilestones, s.Milestones)

	s.Milestones[index].Released = true
	s.Released += amount
	if s.Released == s.TotalAmount {
		// Everything is paid out; no later withdraw can move funds.
		s.Status = StatusCompleted
	}
	if err := e.store.Put(s); err != nil {
		return 0, fmt.Errorf("stream: persist failed: %w", err)
	}
	if err := e.book.Transfer(s.Asset, e.cfg.Escrow, s.Recipient, amount); err != nil {
		*s = prev
		s.Milestones = prevMilestones
		_ = e.store.Put(s)
		return 0, fmt.Errorf("stream: milestone payout failed: %w", err)
	}
	return amount, nil
}

// Cancel terminates the stream: the recipient receives the vested, unpaid
// share and the sender recovers the rest of the escrow. Sender only, not
// from terminal states.
func (e *Engine) Cancel(caller ledger.Address, id string) (recipientAmount, senderRefund uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return 0, 0, err
	}
	now := e.clock.Now()

	if caller != s.Sender {
		return 0, 0, ErrNotSender
	}
	if s.Status == StatusCompleted || s.Status == StatusCanceled {
		return 0, 0, fmt.Errorf("%w: status %s", ErrTerminal, s.Status)
	}

	recipientAmount = withdrawable(s, now)
	senderRefund = s.TotalAmount - s.Released - recipientAmount

	prev := *s
	s.Status = StatusCanceled
	s.Released += recipientAmount
	if err := e.store.Put(s); err != nil {
		return 0, 0, fmt.Errorf("stream: persist failed: %w", err)
	}

	if recipientAmount > 0 {
		if err := e.book.Transfer(s.Asset, e.cfg.Escrow, s.Recipient, recipientAmount); err != nil {
			*s = prev
			_ = e.store.Put(s)
			return 0, 0, fmt.Errorf("stream: cancel payout failed: %w", err)
		}
	}
	if senderRefund > 0 {
		if err := e.book.Transfer(s.Asset, e.cfg.Escrow, s.Sender, senderRefund); err != nil {
			// The recipient leg already moved and cannot be reversed; the
			// stream stays canceled and the refund remains in escrow.
			return recipientAmount, 0, fmt.Errorf("stream: cancel refund failed: %w", err)
		}
	}
	return recipientAmount, senderRefund, nil
}

// Get returns the stream record for id.
func (e *Engine) Get(id string) (*Stream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// ListByParticipant returns all streams where addr is sender or recipient.
func (e *Engine) ListByParticipant(addr ledger.Address) ([]*Stream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListByParticipant(addr)
}
