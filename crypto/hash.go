// Package crypto adapts the underlying hash and signature primitives the
// MTSS protocol delegates to. Hashes and signers are looked up by the
// identifiers carried in signature metadata, so a verifier reconstructs
// the signer's exact primitive stack from the payload alone.
package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// ErrUnknownHash is returned for an unrecognised hash identifier.
var ErrUnknownHash = errors.New("crypto: unknown hash")

// Hash identifiers recognised in signature metadata.
const (
	HashSHA2256 = "sha2256"
	HashSHA2512 = "sha2512"
	HashSHA3256 = "sha3256"
	HashSHA3512 = "sha3512"
)

// HashNames lists the supported hash identifiers.
func HashNames() []string {
	return []string{HashSHA2256, HashSHA2512, HashSHA3256, HashSHA3512}
}

// NewHash returns a fresh hash state for the identifier.
func NewHash(name string) (hash.Hash, error) {
	switch name {
	case HashSHA2256:
		return sha256.New(), nil
	case HashSHA2512:
		return sha512.New(), nil
	case HashSHA3256:
		return sha3.New256(), nil
	case HashSHA3512:
		return sha3.New512(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
	}
}

// DigestSize returns the digest length in bytes for the identifier.
func DigestSize(name string) (int, error) {
	h, err := NewHash(name)
	if err != nil {
		return 0, err
	}
	return h.Size(), nil
}

// Sum hashes data in one call.
func Sum(name string, data []byte) ([]byte, error) {
	h, err := NewHash(name)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
