package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestPublicKeyPEMRoundTrip(t *testing.T) {
	for _, scheme := range []string{SchemeECDSA, SchemeFalcon} {
		signer, err := NewSigner(scheme)
		if err != nil {
			t.Fatal(err)
		}
		sk, pk, err := signer.KeyGen()
		if err != nil {
			t.Fatal(err)
		}

		decodedPK, err := DecodePublicKeyPEM(EncodePublicKeyPEM(pk))
		if err != nil {
			t.Fatalf("%s: %v", scheme, err)
		}
		if !bytes.Equal(decodedPK, pk) {
			t.Fatalf("%s: public key changed through PEM", scheme)
		}

		decodedSK, err := DecodePrivateKeyPEM(EncodePrivateKeyPEM(sk))
		if err != nil {
			t.Fatalf("%s: %v", scheme, err)
		}
		if !bytes.Equal(decodedSK, sk) {
			t.Fatalf("%s: private key changed through PEM", scheme)
		}
	}
}

func TestDecodePEMErrors(t *testing.T) {
	if _, err := DecodePublicKeyPEM([]byte("not pem")); !errors.Is(err, ErrBadPEM) {
		t.Errorf("garbage: err = %v", err)
	}
	// Wrong block type.
	priv := EncodePrivateKeyPEM([]byte{1, 2, 3})
	if _, err := DecodePublicKeyPEM(priv); !errors.Is(err, ErrBadPEM) {
		t.Errorf("wrong type: err = %v", err)
	}
}
