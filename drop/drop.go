// Package drop implements multi-recipient distributions: a single escrowed
// deposit partitioned among a bounded number of claimants, either evenly or
// with pseudo-random shares. Each address claims at most once and the
// creator may sweep the unclaimed remainder after expiry.
//
// Random shares come from an injected generator so behavior is reproducible
// in tests. The generator is not a source of adversarial-grade
// unpredictability; deployments needing that must supply one backed by an
// external randomness beacon.
package drop

import "github.com/payflowlabs/libpayflow-go/ledger"

// Drop is an escrowed multi-claimant distribution.
//
// ClaimedBy maps each claimant to the amount they received, which both
// enforces at-most-once claiming and keeps the audit trail for the
// conservation invariant RemainingAmount = TotalAmount - sum(ClaimedBy).
type Drop struct {
	ID                 string
	Creator            ledger.Address
	Asset              ledger.Asset
	GrossAmount        uint64
	TotalAmount        uint64 // net of the creation fee; this is distributed
	RemainingAmount    uint64
	RecipientCount     uint32
	ClaimedCount       uint32
	PerRecipientAmount uint64 // fixed mode only
	IsRandom           bool
	ExpiryTime         int64 // Unix seconds
	Message            string
	Active             bool
	ClaimedBy          map[ledger.Address]uint64
	CreatedAt          int64
}

// HasClaimed reports whether addr already claimed from the drop.
func (d *Drop) HasClaimed(addr ledger.Address) bool {
	_, ok := d.ClaimedBy[addr]
	return ok
}

// Rand supplies pseudo-random integers for random-mode share sizing.
// *math/rand.Rand satisfies it.
type Rand interface {
	Int63n(n int64) int64
}

// Store persists drops keyed by id.
type Store interface {
	// Put writes the drop, overwriting any existing record.
	Put(d *Drop) error

	// Get retrieves a drop by id. Returns ErrNotFound if absent.
	Get(id string) (*Drop, error)

	// ListByCreator returns all drops created by addr.
	ListByCreator(addr ledger.Address) ([]*Drop, error)
}
