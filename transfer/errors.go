package transfer

import "errors"

var (
	// ErrInvalidAmount indicates a zero gross amount.
	ErrInvalidAmount = errors.New("transfer: invalid amount")

	// ErrInvalidAddress indicates an empty sender or recipient address.
	ErrInvalidAddress = errors.New("transfer: invalid address")

	// ErrInvalidExpiry indicates the expiry falls outside the allowed window.
	ErrInvalidExpiry = errors.New("transfer: expiry outside allowed window")

	// ErrDuplicateID indicates a transfer with the derived id already exists.
	ErrDuplicateID = errors.New("transfer: duplicate id")

	// ErrNotFound indicates no transfer exists for the id.
	ErrNotFound = errors.New("transfer: not found")

	// ErrNotClaimable indicates the transfer is no longer pending or has
	// passed its deadline. Callers can distinguish the cases through
	// EffectiveStatus.
	ErrNotClaimable = errors.New("transfer: not claimable")

	// ErrInvalidClaimCode indicates the provided code does not match.
	ErrInvalidClaimCode = errors.New("transfer: invalid claim code")

	// ErrNotIntendedRecipient indicates the caller is not the recipient of
	// a direct transfer.
	ErrNotIntendedRecipient = errors.New("transfer: caller is not the intended recipient")

	// ErrNotRefundable indicates the transfer is no longer pending.
	ErrNotRefundable = errors.New("transfer: not refundable")

	// ErrNotExpired indicates a refund was attempted before the deadline.
	ErrNotExpired = errors.New("transfer: not yet expired")

	// ErrNotSender indicates the caller is not the transfer's sender.
	ErrNotSender = errors.New("transfer: caller is not the sender")
)
