package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidFeeRate indicates the fee rate exceeds 10000 basis points.
	ErrInvalidFeeRate = errors.New("config: invalid fee rate")

	// ErrInvalidExpiryWindow indicates the transfer expiry bounds are not
	// a valid positive window.
	ErrInvalidExpiryWindow = errors.New("config: invalid transfer expiry window")

	// ErrInvalidFaucet indicates the faucet defaults are inconsistent.
	ErrInvalidFaucet = errors.New("config: invalid faucet parameters")
)
