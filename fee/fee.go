// Package fee computes protocol fees in basis points. The policy is a pure
// function of the gross amount; all engines use it to split a deposit into
// the escrowed net amount and the collector's cut.
package fee

// MaxRateBps is the largest permitted fee rate (100%).
const MaxRateBps = 10000

// Policy computes a protocol fee as a fraction of the gross amount,
// expressed in basis points (1 bp = 0.01%).
type Policy struct {
	RateBps uint32
}

// NewPolicy returns a fee policy with the given basis-point rate.
func NewPolicy(rateBps uint32) (Policy, error) {
	if rateBps > MaxRateBps {
		return Policy{}, ErrInvalidRate
	}
	return Policy{RateBps: rateBps}, nil
}

// Fee returns the fee owed on gross. Rounding is toward zero, so the fee
// never exceeds gross and is monotonic non-decreasing in gross.
func (p Policy) Fee(gross uint64) uint64 {
	// Split the multiplication to avoid overflow on large gross amounts.
	whole := gross / MaxRateBps
	rem := gross % MaxRateBps
	return whole*uint64(p.RateBps) + rem*uint64(p.RateBps)/MaxRateBps
}

// Split divides gross into the net escrowed amount and the fee.
// net + fee == gross always holds.
func (p Policy) Split(gross uint64) (net, fee uint64) {
	fee = p.Fee(gross)
	return gross - fee, fee
}
