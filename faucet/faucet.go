// Package faucet implements a rate-limited dispenser: any address may claim
// a fixed amount from a pool, subject to a per-address cooldown and a
// lifetime allowance. The owner adjusts the dispensing parameters and may
// sweep the pool.
package faucet

import "github.com/payflowlabs/libpayflow-go/ledger"

// Params are the global dispensing parameters. They are persisted so
// owner adjustments survive restarts.
type Params struct {
	ClaimAmount        uint64
	CooldownPeriod     int64 // seconds between claims per address
	MaxClaimPerAddress uint64
}

// Account tracks one address's claim history.
type Account struct {
	Address       ledger.Address
	LastClaimTime int64
	TotalClaimed  uint64
}

// Store persists faucet state.
type Store interface {
	// Params retrieves the dispensing parameters. Returns ErrNotFound if
	// none were persisted yet.
	Params() (*Params, error)

	// PutParams writes the dispensing parameters.
	PutParams(p *Params) error

	// Account retrieves the claim history for addr. Returns ErrNotFound
	// for addresses that never claimed.
	Account(addr ledger.Address) (*Account, error)

	// PutAccount writes an account record.
	PutAccount(a *Account) error
}
