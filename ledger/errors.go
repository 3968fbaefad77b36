package ledger

import "errors"

var (
	// ErrInsufficientFunds indicates the source balance cannot cover the transfer.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrUnknownAsset indicates the asset is not known to the ledger.
	ErrUnknownAsset = errors.New("ledger: unknown asset")

	// ErrInvalidAmount indicates a zero transfer amount.
	ErrInvalidAmount = errors.New("ledger: invalid amount")

	// ErrInvalidAddress indicates an empty from or to address.
	ErrInvalidAddress = errors.New("ledger: invalid address")
)
