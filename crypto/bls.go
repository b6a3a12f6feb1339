//go:build blst

// BLS12-381 signer over the supranational/blst library, MinPk scheme:
// public keys are 48-byte compressed G1, signatures 96-byte compressed
// G2. Registered as the optional "bls12381" scheme; build with
//
//	go build -tags blst
package crypto

import (
	"crypto/rand"
	"errors"

	blst "github.com/supranational/blst/bindings/go"
)

// SchemeBLS12381 is the metadata identifier of the blst-backed scheme.
const SchemeBLS12381 = "bls12381"

// blsDST is the hash-to-curve domain separation tag.
var blsDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// ErrBLSKeyGen is returned when IKM sampling or key derivation fails.
var ErrBLSKeyGen = errors.New("crypto: bls key generation failed")

func init() {
	RegisterSigner(SchemeBLS12381, func() (Signer, error) {
		return &blsSigner{}, nil
	})
}

// blsSigner implements Signer with the MinPk scheme.
type blsSigner struct{}

func (b *blsSigner) Name() string { return SchemeBLS12381 }

func (b *blsSigner) KeyGen() ([]byte, []byte, error) {
	ikm := make([]byte, 32)
	if _, err := rand.Read(ikm); err != nil {
		return nil, nil, ErrBLSKeyGen
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, nil, ErrBLSKeyGen
	}
	pk := new(blst.P1Affine).From(sk)
	return sk.Serialize(), pk.Compress(), nil
}

func (b *blsSigner) Sign(msg, sk []byte) ([]byte, error) {
	secret := new(blst.SecretKey).Deserialize(sk)
	if secret == nil {
		return nil, ErrInvalidKey
	}
	sig := new(blst.P2Affine).Sign(secret, msg, blsDST)
	if sig == nil {
		return nil, ErrSignFailed
	}
	return sig.Compress(), nil
}

func (b *blsSigner) Verify(msg, sig, pk []byte) bool {
	pub := new(blst.P1Affine).Uncompress(pk)
	if pub == nil {
		return false
	}
	s := new(blst.P2Affine).Uncompress(sig)
	if s == nil {
		return false
	}
	return s.Verify(true, pub, true, msg, blsDST)
}
