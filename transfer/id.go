package transfer

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/payflowlabs/libpayflow-go/ledger"
)

// IDLen is the length of a transfer id in hex characters (SHA-256 output).
const IDLen = 64

// deriveID computes a transfer id from the creation parameters plus a random
// nonce, so ids are opaque, fixed-width, and collision-free in practice.
func deriveID(sender, recipient ledger.Address, asset ledger.Asset, gross uint64, expiry, createdAt int64) (string, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("transfer: generate id nonce: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(sender))
	h.Write([]byte{0})
	h.Write([]byte(recipient))
	h.Write([]byte{0})
	h.Write([]byte(asset))
	h.Write([]byte{0})

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], gross)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(expiry))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(createdAt))
	h.Write(buf[:])
	h.Write(nonce)

	return hex.EncodeToString(h.Sum(nil)), nil
}
