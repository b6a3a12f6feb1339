package crypto

import (
	stdcrypto "crypto"
	"crypto/rand"
	stdrsa "crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// rsaKeyBits is the modulus size for generated RSA keys.
const rsaKeyBits = 2048

// rsaSigner signs with 2048-bit RSA-PSS over SHA-256. Key encodings match
// the ECDSA signer: PKCS#8 secret keys, PKIX public keys.
type rsaSigner struct{}

func (s *rsaSigner) Name() string { return SchemeRSA }

func (s *rsaSigner) KeyGen() ([]byte, []byte, error) {
	key, err := stdrsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("rsa keygen: %w", err)
	}
	sk, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("rsa keygen: %w", err)
	}
	pk, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("rsa keygen: %w", err)
	}
	return sk, pk, nil
}

func (s *rsaSigner) Sign(msg, sk []byte) ([]byte, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	key, ok := parsed.(*stdrsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
	}
	digest := sha256.Sum256(msg)
	sig, err := stdrsa.SignPSS(rand.Reader, key, stdcrypto.SHA256, digest[:], &stdrsa.PSSOptions{
		SaltLength: stdrsa.PSSSaltLengthEqualsHash,
		Hash:       stdcrypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	return sig, nil
}

func (s *rsaSigner) Verify(msg, sig, pk []byte) bool {
	parsed, err := x509.ParsePKIXPublicKey(pk)
	if err != nil {
		return false
	}
	pub, ok := parsed.(*stdrsa.PublicKey)
	if !ok {
		return false
	}
	digest := sha256.Sum256(msg)
	err = stdrsa.VerifyPSS(pub, stdcrypto.SHA256, digest[:], sig, &stdrsa.PSSOptions{
		SaltLength: stdrsa.PSSSaltLengthEqualsHash,
		Hash:       stdcrypto.SHA256,
	})
	return err == nil
}
