package storage

import "errors"

var (
	// ErrNilRecord indicates a nil record was passed to a Put.
	ErrNilRecord = errors.New("storage: nil record")
)
