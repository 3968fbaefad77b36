package fee

import "errors"

var (
	// ErrInvalidRate indicates the basis-point rate exceeds 100%.
	ErrInvalidRate = errors.New("fee: rate exceeds 10000 basis points")
)
