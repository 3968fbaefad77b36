package stream

import "errors"

var (
	// ErrInvalidAmount indicates a zero gross amount or one consumed
	// entirely by the fee.
	ErrInvalidAmount = errors.New("stream: invalid amount")

	// ErrInvalidRecipient indicates an empty recipient or one equal to the
	// sender.
	ErrInvalidRecipient = errors.New("stream: invalid recipient")

	// ErrInvalidWindow indicates endTime <= startTime or a startTime in
	// the past.
	ErrInvalidWindow = errors.New("stream: invalid vesting window")

	// ErrInvalidMilestone indicates a milestone percentage outside [1,99].
	ErrInvalidMilestone = errors.New("stream: invalid milestone")

	// ErrNotFound indicates no stream exists for the id.
	ErrNotFound = errors.New("stream: not found")

	// ErrNotSender indicates the caller is not the stream's sender.
	ErrNotSender = errors.New("stream: caller is not the sender")

	// ErrNotRecipient indicates the caller is not the stream's recipient.
	ErrNotRecipient = errors.New("stream: caller is not the recipient")

	// ErrNotActive indicates the operation requires an active stream.
	ErrNotActive = errors.New("stream: not active")

	// ErrNotPaused indicates the operation requires a paused stream.
	ErrNotPaused = errors.New("stream: not paused")

	// ErrTerminal indicates the stream is completed or canceled.
	ErrTerminal = errors.New("stream: already terminal")

	// ErrNothingToWithdraw indicates no vested balance is available.
	ErrNothingToWithdraw = errors.New("stream: nothing to withdraw")

	// ErrMilestoneReleased indicates the milestone was already released.
	ErrMilestoneReleased = errors.New("stream: milestone already released")
)
