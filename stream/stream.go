// Package stream implements linear payment streams: an escrowed deposit
// vests to the recipient at a constant rate over a time window. The sender
// may pause and resume the stream (paused time does not vest), release
// percentage milestones early, or cancel and split the remainder. Vesting
// is computed lazily from stored checkpoints; no timer advances it.
package stream

import "github.com/payflowlabs/libpayflow-go/ledger"

// Status is the lifecycle state of a stream.
type Status uint8

const (
	// StatusActive means the stream is vesting. A stream with a future
	// start time is Active with nothing vested yet.
	StatusActive Status = iota

	// StatusPaused means vesting is suspended.
	StatusPaused

	// StatusCompleted means the full net amount vested and was withdrawn.
	StatusCompleted

	// StatusCanceled means the sender terminated the stream early.
	StatusCanceled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Milestone is a sender-controlled early release of a fixed percentage of
// the stream's net amount.
type Milestone struct {
	Percentage  uint8 // 1-99
	Description string
	Released    bool
}

// Stream is an escrowed vesting schedule.
//
// Released tracks everything paid out so far: withdrawals plus milestone
// releases. The amount vested at time t is a pure function of the window,
// the paused-time accumulator, and t, so the invariant
// sum(payouts) <= TotalAmount holds for every operation sequence.
type Stream struct {
	ID          string
	Sender      ledger.Address
	Recipient   ledger.Address
	Asset       ledger.Asset
	GrossAmount uint64
	TotalAmount uint64 // net of the creation fee; this is what vests
	StartTime   int64  // Unix seconds
	EndTime     int64
	Released    uint64 // total paid out (withdrawals + milestones)
	PausedAccum int64  // cumulative paused seconds from completed pauses
	LastPauseStart int64
	Status      Status
	Milestones  []Milestone
	CreatedAt   int64
}

// activeElapsed returns the seconds of vesting-eligible time up to now:
// wall-clock elapsed since StartTime minus all paused time, clamped to the
// stream's duration. Pausing therefore pushes full vesting past EndTime by
// exactly the paused duration.
func (s *Stream) activeElapsed(now int64) int64 {
	elapsed := now - s.StartTime - s.PausedAccum
	if s.Status == StatusPaused {
		elapsed -= now - s.LastPauseStart
	}
	if elapsed < 0 {
		return 0
	}
	if d := s.EndTime - s.StartTime; elapsed > d {
		return d
	}
	return elapsed
}

// VestedAt returns the amount vested at time now, in [0, TotalAmount].
func (s *Stream) VestedAt(now int64) uint64 {
	d := s.EndTime - s.StartTime
	active := s.activeElapsed(now)
	if active >= d {
		return s.TotalAmount
	}
	// total * active / d, split to avoid overflow on large deposits.
	q := s.TotalAmount / uint64(d)
	r := s.TotalAmount % uint64(d)
	return q*uint64(active) + r*uint64(active)/uint64(d)
}

// Store persists streams keyed by id.
type Store interface {
	// Put writes the stream, overwriting any existing record.
	Put(s *Stream) error

	// Get retrieves a stream by id. Returns ErrNotFound if absent.
	Get(id string) (*Stream, error)

	// ListByParticipant returns all streams where addr is sender or
	// recipient.
	ListByParticipant(addr ledger.Address) ([]*Stream, error)
}
