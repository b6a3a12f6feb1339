package crypto

import (
	"bytes"
	"errors"
	"testing"
)

// signerRoundTrip exercises keygen, sign, verify, and byte-flip tamper
// rejection for one scheme.
func signerRoundTrip(t *testing.T, name string) {
	t.Helper()
	signer, err := NewSigner(name)
	if err != nil {
		t.Fatalf("NewSigner(%s): %v", name, err)
	}
	if signer.Name() != name {
		t.Fatalf("Name() = %q, want %q", signer.Name(), name)
	}

	sk, pk, err := signer.KeyGen()
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	if len(sk) == 0 || len(pk) == 0 {
		t.Fatal("empty key material")
	}

	msg := []byte("ecdsa rsa dilithium sphincsplus falcon sha2256 sha3512 4 100 2 33")
	sig, err := signer.Sign(msg, sk)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !signer.Verify(msg, sig, pk) {
		t.Fatal("signature did not verify")
	}

	// Any single-byte change to the message must reject.
	tampered := bytes.Clone(msg)
	tampered[3] ^= 0x01
	if signer.Verify(tampered, sig, pk) {
		t.Fatal("tampered message verified")
	}

	// Any single-byte change to the signature must reject.
	badSig := bytes.Clone(sig)
	badSig[len(badSig)/2] ^= 0x01
	if signer.Verify(msg, badSig, pk) {
		t.Fatal("tampered signature verified")
	}
}

func TestECDSASigner(t *testing.T) { signerRoundTrip(t, SchemeECDSA) }

func TestRSASigner(t *testing.T) { signerRoundTrip(t, SchemeRSA) }

func TestFalconSigner(t *testing.T) { signerRoundTrip(t, SchemeFalcon) }

func TestDilithiumSigner(t *testing.T) {
	signerRoundTrip(t, SchemeDilithium)
}

func TestSPHINCSPlusSigner(t *testing.T) {
	if testing.Short() {
		t.Skip("slow hash-based signing")
	}
	signerRoundTrip(t, SchemeSPHINCSPlus)
}

func TestUnknownSigner(t *testing.T) {
	if _, err := NewSigner("dsa"); !errors.Is(err, ErrUnknownSigner) {
		t.Fatalf("err = %v, want ErrUnknownSigner", err)
	}
}

func TestSignerNamesRegistered(t *testing.T) {
	names := SignerNames()
	want := []string{SchemeDilithium, SchemeECDSA, SchemeFalcon, SchemeRSA, SchemeSPHINCSPlus}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("scheme %q not registered (have %v)", w, names)
		}
	}
}
