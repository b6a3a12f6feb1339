package crypto

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by signer operations.
var (
	ErrUnknownSigner = errors.New("crypto: unknown signature scheme")
	ErrInvalidKey    = errors.New("crypto: invalid key material")
	ErrSignFailed    = errors.New("crypto: signing failed")
)

// Signer is the contract the MTSS protocol requires from an underlying
// signature scheme. Keys and signatures travel as opaque byte strings;
// each scheme defines its own encoding.
type Signer interface {
	// Name returns the scheme identifier carried in signature metadata.
	Name() string

	// KeyGen creates a fresh key pair.
	KeyGen() (sk, pk []byte, err error)

	// Sign produces a signature over msg with the secret key.
	Sign(msg, sk []byte) ([]byte, error)

	// Verify checks sig over msg under the public key.
	Verify(msg, sig, pk []byte) bool
}

// Scheme identifiers recognised in signature metadata.
const (
	SchemeECDSA       = "ecdsa"
	SchemeRSA         = "rsa"
	SchemeDilithium   = "dilithium"
	SchemeSPHINCSPlus = "sphincsplus"
	SchemeFalcon      = "falcon"
)

// registry maps scheme identifiers to constructors. Optional backends
// (such as the blst-backed BLS scheme) add themselves from build-tagged
// init functions.
var (
	registryMu sync.RWMutex
	registry   = map[string]func() (Signer, error){
		SchemeECDSA:       newECDSASigner,
		SchemeRSA:         newRSASigner,
		SchemeDilithium:   newDilithiumSigner,
		SchemeSPHINCSPlus: newSPHINCSPlusSigner,
		SchemeFalcon:      newFalconSigner,
	}
)

func newECDSASigner() (Signer, error) { return &ecdsaSigner{}, nil }

func newRSASigner() (Signer, error) { return &rsaSigner{}, nil }

func newFalconSigner() (Signer, error) { return &falconSigner{}, nil }

func newDilithiumSigner() (Signer, error) {
	return newCirclSigner(SchemeDilithium, circlDilithiumName)
}

func newSPHINCSPlusSigner() (Signer, error) {
	return newCirclSigner(SchemeSPHINCSPlus, circlSPHINCSName)
}

// NewSigner returns the signer for the identifier.
func NewSigner(name string) (Signer, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSigner, name)
	}
	return ctor()
}

// RegisterSigner adds a scheme constructor under the given identifier.
// Later registrations replace earlier ones.
func RegisterSigner(name string, ctor func() (Signer, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// SignerNames lists the registered scheme identifiers, sorted.
func SignerNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
