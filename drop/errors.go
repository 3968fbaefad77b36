package drop

import "errors"

var (
	// ErrInvalidAmount indicates a zero total amount or one consumed
	// entirely by the fee.
	ErrInvalidAmount = errors.New("drop: invalid amount")

	// ErrInvalidAddress indicates an empty creator address.
	ErrInvalidAddress = errors.New("drop: invalid address")

	// ErrInvalidRecipientCount indicates a zero recipient count or one
	// exceeding the distributable amount.
	ErrInvalidRecipientCount = errors.New("drop: invalid recipient count")

	// ErrInvalidExpiry indicates an expiry not in the future.
	ErrInvalidExpiry = errors.New("drop: invalid expiry")

	// ErrNoRandSource indicates a random drop was requested on an engine
	// built without a randomness source.
	ErrNoRandSource = errors.New("drop: no randomness source configured")

	// ErrNotFound indicates no drop exists for the id.
	ErrNotFound = errors.New("drop: not found")

	// ErrInactive indicates the drop was swept or exhausted.
	ErrInactive = errors.New("drop: inactive")

	// ErrExpired indicates the drop's expiry time has passed.
	ErrExpired = errors.New("drop: expired")

	// ErrNotExpired indicates a sweep was attempted before expiry.
	ErrNotExpired = errors.New("drop: not yet expired")

	// ErrExhausted indicates all recipient slots are claimed.
	ErrExhausted = errors.New("drop: all slots claimed")

	// ErrAlreadyClaimed indicates the caller already claimed from the drop.
	ErrAlreadyClaimed = errors.New("drop: address already claimed")

	// ErrCallerIsCreator indicates the creator attempted to claim their
	// own drop.
	ErrCallerIsCreator = errors.New("drop: creator cannot claim")

	// ErrNotCreator indicates the caller is not the drop's creator.
	ErrNotCreator = errors.New("drop: caller is not the creator")
)
