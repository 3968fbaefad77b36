package transfer

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for claim-code hashing. Claim codes are short,
	// human-chosen secrets, so a memory-hard hash is used rather than a
	// bare digest.
	codeHashTime        = 3
	codeHashMemory      = 64 * 1024 // 64 MB
	codeHashParallelism = 4
	codeHashLen         = 32

	codeSaltLen = 16
)

// hashClaimCode derives the stored hash for a claim code with a fresh salt.
func hashClaimCode(code string) (hash, salt []byte, err error) {
	salt = make([]byte, codeSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("transfer: generate code salt: %w", err)
	}
	hash = argon2.IDKey([]byte(code), salt, codeHashTime, codeHashMemory, codeHashParallelism, codeHashLen)
	return hash, salt, nil
}

// verifyClaimCode checks code against the stored hash in constant time.
func verifyClaimCode(code string, hash, salt []byte) bool {
	derived := argon2.IDKey([]byte(code), salt, codeHashTime, codeHashMemory, codeHashParallelism, codeHashLen)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
