// pqsigner.go adapts the lattice- and hash-based signature schemes from
// cloudflare/circl. Schemes are resolved through circl's generic sign
// registry, so key and signature encodings are circl's canonical binary
// forms.
package crypto

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/schemes"
)

// circl registry names backing the metadata identifiers.
const (
	circlDilithiumName = "ML-DSA-65"
	circlSPHINCSName   = "SLH-DSA-SHA2-128s"
)

// circlSigner wraps a circl sign.Scheme under an MTSS scheme identifier.
type circlSigner struct {
	name   string
	scheme sign.Scheme
}

// newCirclSigner resolves the circl scheme by its registry name.
func newCirclSigner(name, circlName string) (Signer, error) {
	s := schemes.ByName(circlName)
	if s == nil {
		return nil, fmt.Errorf("%w: circl scheme %q unavailable", ErrUnknownSigner, circlName)
	}
	return &circlSigner{name: name, scheme: s}, nil
}

func (c *circlSigner) Name() string { return c.name }

func (c *circlSigner) KeyGen() ([]byte, []byte, error) {
	pub, priv, err := c.scheme.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("%s keygen: %w", c.name, err)
	}
	sk, err := priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%s keygen: %w", c.name, err)
	}
	pk, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%s keygen: %w", c.name, err)
	}
	return sk, pk, nil
}

func (c *circlSigner) Sign(msg, sk []byte) ([]byte, error) {
	priv, err := c.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return c.scheme.Sign(priv, msg, nil), nil
}

func (c *circlSigner) Verify(msg, sig, pk []byte) bool {
	pub, err := c.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return false
	}
	return c.scheme.Verify(pub, msg, sig, nil)
}
