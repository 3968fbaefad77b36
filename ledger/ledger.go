// Package ledger defines the external collaborators the payment engines
// depend on: an asset ledger that moves fungible value between named
// balances, and a clock. Engines never hold raw balances themselves; every
// movement of value goes through AssetLedger.Transfer, which is assumed to
// be atomic and irreversible once it reports success.
package ledger

// Address identifies a balance holder on the ledger.
type Address string

// Asset identifies a fungible asset type.
type Asset string

// AssetLedger moves value between named balances.
//
// Transfer must either move the full amount or fail with no movement; a
// successful transfer cannot be reversed. BalanceOf reports the current
// balance of holder for the given asset.
type AssetLedger interface {
	Transfer(asset Asset, from, to Address, amount uint64) error
	BalanceOf(asset Asset, holder Address) (uint64, error)
}

// Clock supplies the current time as Unix seconds. Engines sample the clock
// exactly once per operation so that all time-based decisions within a
// single transition are self-consistent.
type Clock interface {
	Now() int64
}
