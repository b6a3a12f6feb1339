package crypto

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// ecdsaSigner signs with ECDSA over NIST P-256. Secret keys are PKCS#8
// DER, public keys are PKIX (SubjectPublicKeyInfo) DER, signatures are
// ASN.1 over the SHA-256 digest of the message.
type ecdsaSigner struct{}

func (s *ecdsaSigner) Name() string { return SchemeECDSA }

func (s *ecdsaSigner) KeyGen() ([]byte, []byte, error) {
	key, err := stdecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("ecdsa keygen: %w", err)
	}
	sk, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("ecdsa keygen: %w", err)
	}
	pk, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("ecdsa keygen: %w", err)
	}
	return sk, pk, nil
}

func (s *ecdsaSigner) Sign(msg, sk []byte) ([]byte, error) {
	key, err := parseECDSAPrivate(sk)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(msg)
	sig, err := stdecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	return sig, nil
}

func (s *ecdsaSigner) Verify(msg, sig, pk []byte) bool {
	parsed, err := x509.ParsePKIXPublicKey(pk)
	if err != nil {
		return false
	}
	pub, ok := parsed.(*stdecdsa.PublicKey)
	if !ok {
		return false
	}
	digest := sha256.Sum256(msg)
	return stdecdsa.VerifyASN1(pub, digest[:], sig)
}

func parseECDSAPrivate(sk []byte) (*stdecdsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	key, ok := parsed.(*stdecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA key", ErrInvalidKey)
	}
	return key, nil
}
