// Package transfer implements conditional transfers: escrowed deposits that
// a recipient claims before a deadline, optionally gated by a secret claim
// code, with the sender refunded after expiry. A transfer is claimed at most
// once; the status gate makes claim and refund mutually exclusive.
package transfer

import "github.com/payflowlabs/libpayflow-go/ledger"

// Status is the lifecycle state of a transfer.
type Status uint8

const (
	// StatusPending means the escrow is held and the transfer is open.
	StatusPending Status = iota

	// StatusClaimed means the recipient collected the net amount.
	StatusClaimed

	// StatusRefunded means the sender recovered the escrow after expiry.
	StatusRefunded

	// StatusExpired is never stored; EffectiveStatus reports it for a
	// pending transfer whose deadline has passed.
	StatusExpired
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusClaimed:
		return "claimed"
	case StatusRefunded:
		return "refunded"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Transfer is an escrowed conditional payment. Records are never deleted;
// terminal transfers remain as audit entries.
type Transfer struct {
	ID          string
	Sender      ledger.Address
	Recipient   ledger.Address // empty for link transfers
	Asset       ledger.Asset
	GrossAmount uint64
	NetAmount   uint64 // GrossAmount minus the creation fee
	Expiry      int64  // Unix seconds
	CreatedAt   int64
	Status      Status
	IsLink      bool
	HasCode     bool
	CodeHash    []byte // argon2id(code, CodeSalt), set when HasCode
	CodeSalt    []byte
}

// EffectiveStatus reports the externally visible status at time now:
// a pending transfer past its deadline shows as expired.
func (t *Transfer) EffectiveStatus(now int64) Status {
	if t.Status == StatusPending && now > t.Expiry {
		return StatusExpired
	}
	return t.Status
}

// Store persists transfers keyed by id.
type Store interface {
	// Put writes the transfer, overwriting any existing record.
	Put(t *Transfer) error

	// Get retrieves a transfer by id. Returns ErrNotFound if absent.
	Get(id string) (*Transfer, error)

	// ListBySender returns all transfers created by addr.
	ListBySender(addr ledger.Address) ([]*Transfer, error)
}
