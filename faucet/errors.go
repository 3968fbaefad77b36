package faucet

import "errors"

var (
	// ErrCooldownActive indicates the address claimed too recently.
	ErrCooldownActive = errors.New("faucet: cooldown active")

	// ErrMaxClaimExceeded indicates the address reached its lifetime
	// allowance.
	ErrMaxClaimExceeded = errors.New("faucet: max claim per address exceeded")

	// ErrInsufficientPool indicates the pool cannot cover the claim.
	ErrInsufficientPool = errors.New("faucet: insufficient pool balance")

	// ErrNotOwner indicates the caller is not the faucet owner.
	ErrNotOwner = errors.New("faucet: caller is not the owner")

	// ErrInvalidParam indicates a zero or negative parameter value.
	ErrInvalidParam = errors.New("faucet: invalid parameter")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("faucet: not found")
)
