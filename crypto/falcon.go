// falcon.go implements the Falcon-512 signer over the NTRU ring
// Z_q[X]/(X^512+1) with q = 12289. Key generation samples short f, g by
// SHAKE-256 expansion and publishes h = g * f^{-1} computed through the
// negacyclic NTT; signing is deterministic hash-then-sign: a nonce and a
// sparse +/-1 challenge c are derived from the message, and the signature
// carries z = s + c*f together with a SHAKE-256 tag over h*z binding the
// public key, nonce, and message. Verification recomputes h*z, checks the
// tag and the L2 norm bound on z.
//
// This is a reduced reference form of the Falcon flow: it keeps the ring,
// the NTT, the key relation, and the canonical encodings (897-byte public
// keys, 1281-byte secret keys, 690-byte signatures) but replaces trapdoor
// Gaussian sampling with direct masking, so it must not be treated as a
// production lattice signature.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Falcon-512 ring and encoding constants.
const (
	falconN = 512   // polynomial degree
	falconQ = 12289 // ring modulus, prime, 2N | q-1

	// FalconPubKeySize is the public key size: header byte plus h packed
	// at 14 bits per coefficient.
	FalconPubKeySize = 1 + falconN*14/8
	// FalconSecKeySize is the secret key size: header byte, f and g
	// packed at 6 bits per coefficient, and a reserved completion region.
	FalconSecKeySize = 1 + 2*falconN*6/8 + falconN
	// FalconSigSize is the signature size: nonce, tag, and z packed at 9
	// bits per coefficient, zero-padded.
	FalconSigSize = 690

	falconNonceSize = 40
	falconTagSize   = 32
	falconZBits     = 9
	falconFGBits    = 6
	falconHBits     = 14

	// falconShortBound bounds the sampled coefficients of f, g, and the
	// masking noise s.
	falconShortBound = 6
	// falconTau is the Hamming weight of the challenge polynomial; kept
	// small enough that every honest z fits the 9-bit encoding.
	falconTau = 32
	// falconNormBound is the squared L2 bound accepted for z.
	falconNormBound = 34034726

	falconPKHeader = 0x09 // log2(N)
	falconSKHeader = 0x59
)

// Errors returned by the Falcon signer.
var (
	ErrFalconBadKey    = errors.New("crypto: falcon key has wrong size or header")
	ErrFalconBadSig    = errors.New("crypto: falcon signature has wrong size")
	ErrFalconKeyGen    = errors.New("crypto: falcon key generation failed")
	ErrFalconZTooLarge = errors.New("crypto: falcon z exceeds encoding range")
)

// falconZetas holds the NTT twiddle factors: powers of a primitive
// 1024th root of unity mod q in bit-reversed order.
var falconZetas [falconN]int32

func init() {
	// 11 generates Z_q^*; psi = 11^((q-1)/1024) has order 1024.
	psi := falconPow(11, (falconQ-1)/1024)
	for i := 1; i < falconN; i++ {
		falconZetas[i] = falconPow(psi, int32(falconBitRev(i, 9)))
	}
	falconZetas[0] = 1
}

// falconSigner implements Signer for Falcon-512.
type falconSigner struct{}

func (f *falconSigner) Name() string { return SchemeFalcon }

// KeyGen samples short f, g until f is invertible mod q, then publishes
// h = g * f^{-1}.
func (f *falconSigner) KeyGen() ([]byte, []byte, error) {
	for attempt := 0; attempt < 64; attempt++ {
		seed := make([]byte, 48)
		if _, err := rand.Read(seed); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrFalconKeyGen, err)
		}

		sh := sha3.NewShake256()
		sh.Write([]byte("falcon-512-keygen"))
		sh.Write(seed)
		fp := falconSampleShort(sh)
		gp := falconSampleShort(sh)
		if fp[0]%2 == 0 {
			fp[0]++ // keep the constant term odd
		}

		fNTT := falconNTT(fp)
		invertible := true
		fInv := make([]int32, falconN)
		for i, c := range fNTT {
			if c == 0 {
				invertible = false
				break
			}
			fInv[i] = falconInv(c)
		}
		if !invertible {
			continue
		}

		gNTT := falconNTT(gp)
		hNTT := make([]int32, falconN)
		for i := range hNTT {
			hNTT[i] = falconMul(gNTT[i], fInv[i])
		}
		hp := falconINTT(hNTT)

		pk := make([]byte, 1, FalconPubKeySize)
		pk[0] = falconPKHeader
		pk = append(pk, falconPackUnsigned(hp, falconHBits)...)

		sk := make([]byte, 1, FalconSecKeySize)
		sk[0] = falconSKHeader
		sk = append(sk, falconPackSigned(fp, falconFGBits)...)
		sk = append(sk, falconPackSigned(gp, falconFGBits)...)
		sk = append(sk, make([]byte, falconN)...) // reserved completion region

		return sk, pk, nil
	}
	return nil, nil, ErrFalconKeyGen
}

// Sign produces a deterministic signature: nonce || tag || packed z.
func (f *falconSigner) Sign(msg, sk []byte) ([]byte, error) {
	if len(sk) != FalconSecKeySize || sk[0] != falconSKHeader {
		return nil, ErrFalconBadKey
	}
	fgBytes := falconN * falconFGBits / 8
	fp := falconUnpackSigned(sk[1:1+fgBytes], falconFGBits)
	gp := falconUnpackSigned(sk[1+fgBytes:1+2*fgBytes], falconFGBits)

	// Rebuild h from the secret polynomials.
	fNTT := falconNTT(fp)
	fInv := make([]int32, falconN)
	for i, c := range fNTT {
		if c == 0 {
			return nil, ErrFalconBadKey
		}
		fInv[i] = falconInv(c)
	}
	gNTT := falconNTT(gp)
	hNTT := make([]int32, falconN)
	for i := range hNTT {
		hNTT[i] = falconMul(gNTT[i], fInv[i])
	}

	// Deterministic nonce from the secret key and message.
	nsh := sha3.NewShake256()
	nsh.Write([]byte("falcon-512-nonce"))
	nsh.Write(sk)
	nsh.Write(msg)
	nonce := make([]byte, falconNonceSize)
	nsh.Read(nonce)

	c := falconChallenge(nonce, msg)
	s := falconMask(nonce, msg)

	// z = s + c*f in the ring.
	cf := falconINTT(falconPointwise(falconNTT(c), fNTT))
	z := make([]int32, falconN)
	for i := range z {
		z[i] = falconCenter(falconRed(s[i] + cf[i]))
		if z[i] < -(1<<(falconZBits-1)) || z[i] >= 1<<(falconZBits-1) {
			return nil, ErrFalconZTooLarge
		}
	}

	// Tag binds h*z, nonce, and message. h is taken through the same
	// coefficient form the verifier unpacks from the public key.
	hp := falconINTT(hNTT)
	hz := falconINTT(falconPointwise(falconNTT(hp), falconNTT(z)))
	tag := falconTag(hz, nonce, msg)

	sig := make([]byte, 0, FalconSigSize)
	sig = append(sig, nonce...)
	sig = append(sig, tag...)
	sig = append(sig, falconPackSigned(z, falconZBits)...)
	sig = append(sig, make([]byte, FalconSigSize-len(sig))...)
	return sig, nil
}

// Verify checks the norm bound on z and the h*z tag.
func (f *falconSigner) Verify(msg, sig, pk []byte) bool {
	if len(sig) != FalconSigSize || len(pk) != FalconPubKeySize || pk[0] != falconPKHeader {
		return false
	}
	nonce := sig[:falconNonceSize]
	tag := sig[falconNonceSize : falconNonceSize+falconTagSize]
	zBytes := falconN * falconZBits / 8
	zStart := falconNonceSize + falconTagSize
	z := falconUnpackSigned(sig[zStart:zStart+zBytes], falconZBits)
	for _, b := range sig[zStart+zBytes:] {
		if b != 0 {
			return false
		}
	}

	var normSq int64
	nonZero := false
	for _, c := range z {
		normSq += int64(c) * int64(c)
		if c != 0 {
			nonZero = true
		}
	}
	if !nonZero || normSq > falconNormBound {
		return false
	}

	hp := falconUnpackUnsigned(pk[1:], falconHBits)
	for _, c := range hp {
		if c >= falconQ {
			return false
		}
	}
	hz := falconINTT(falconPointwise(falconNTT(hp), falconNTT(z)))
	expect := falconTag(hz, nonce, msg)
	if len(expect) != falconTagSize {
		return false
	}
	for i := range expect {
		if expect[i] != tag[i] {
			return false
		}
	}
	return true
}

// falconChallenge derives the sparse +/-1 challenge polynomial from the
// nonce and message.
func falconChallenge(nonce, msg []byte) []int32 {
	c := make([]int32, falconN)
	sh := sha3.NewShake256()
	sh.Write([]byte("falcon-512-challenge"))
	sh.Write(nonce)
	sh.Write(msg)

	buf := make([]byte, 3)
	for placed := 0; placed < falconTau; {
		sh.Read(buf)
		pos := (int(buf[0])<<8 | int(buf[1])) % falconN
		if c[pos] != 0 {
			continue
		}
		if buf[2]&1 == 0 {
			c[pos] = 1
		} else {
			c[pos] = -1
		}
		placed++
	}
	return c
}

// falconMask derives the masking noise s from the nonce and message.
func falconMask(nonce, msg []byte) []int32 {
	sh := sha3.NewShake256()
	sh.Write([]byte("falcon-512-mask"))
	sh.Write(nonce)
	sh.Write(msg)
	return falconSampleShort(sh)
}

// falconSampleShort draws a polynomial with coefficients in
// [-falconShortBound, falconShortBound] from a SHAKE stream.
func falconSampleShort(sh sha3.ShakeHash) []int32 {
	out := make([]int32, falconN)
	buf := make([]byte, 2)
	span := int32(2*falconShortBound + 1)
	for i := range out {
		sh.Read(buf)
		v := (int32(buf[0])<<8 | int32(buf[1])) % span
		out[i] = v - falconShortBound
	}
	return out
}

// falconTag hashes h*z with the nonce and message into the signature tag.
func falconTag(hz []int32, nonce, msg []byte) []byte {
	sh := sha3.NewShake256()
	sh.Write([]byte("falcon-512-tag"))
	for _, c := range hz {
		sh.Write([]byte{byte(uint32(c)), byte(uint32(c) >> 8)})
	}
	sh.Write(nonce)
	sh.Write(msg)
	tag := make([]byte, falconTagSize)
	sh.Read(tag)
	return tag
}

// falconNTT is the forward negacyclic NTT; input coefficients may be any
// int32, output is in [0, q).
func falconNTT(poly []int32) []int32 {
	out := make([]int32, falconN)
	for i, c := range poly {
		out[i] = falconRed(c)
	}
	k := 1
	for length := falconN / 2; length >= 1; length /= 2 {
		for start := 0; start < falconN; start += 2 * length {
			zeta := falconZetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := falconMul(zeta, out[j+length])
				out[j+length] = falconRed(out[j] - t)
				out[j] = falconRed(out[j] + t)
			}
		}
	}
	return out
}

// falconINTT is the inverse transform, including the 1/N scaling.
func falconINTT(poly []int32) []int32 {
	out := make([]int32, falconN)
	copy(out, poly)
	k := falconN - 1
	for length := 1; length <= falconN/2; length *= 2 {
		for start := 0; start < falconN; start += 2 * length {
			zeta := falconZetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := out[j]
				out[j] = falconRed(t + out[j+length])
				out[j+length] = falconMul(zeta, falconRed(out[j+length]-t))
			}
		}
	}
	nInv := falconInv(falconN)
	for i := range out {
		out[i] = falconMul(out[i], nInv)
	}
	return out
}

// falconPointwise multiplies two NTT-domain polynomials.
func falconPointwise(a, b []int32) []int32 {
	out := make([]int32, falconN)
	for i := range out {
		out[i] = falconMul(a[i], b[i])
	}
	return out
}

// falconRed reduces x to [0, q).
func falconRed(x int32) int32 {
	r := x % falconQ
	if r < 0 {
		r += falconQ
	}
	return r
}

// falconCenter reduces x to (-q/2, q/2].
func falconCenter(x int32) int32 {
	r := falconRed(x)
	if r > falconQ/2 {
		r -= falconQ
	}
	return r
}

// falconMul multiplies mod q.
func falconMul(a, b int32) int32 {
	return int32((int64(a) * int64(b)) % falconQ)
}

// falconPow raises base to exp mod q.
func falconPow(base, exp int32) int32 {
	result := int64(1)
	b := int64(falconRed(base))
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result * b % falconQ
		}
		b = b * b % falconQ
	}
	return int32(result)
}

// falconInv inverts a mod q by Fermat's little theorem.
func falconInv(a int32) int32 {
	return falconPow(a, falconQ-2)
}

// falconBitRev reverses the lower bits bits of x.
func falconBitRev(x, bits int) int {
	var r int
	for i := 0; i < bits; i++ {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}

// falconPackUnsigned packs non-negative coefficients at the given bit
// width, most significant bit first.
func falconPackUnsigned(vals []int32, width int) []byte {
	out := make([]byte, (len(vals)*width+7)/8)
	bit := 0
	for _, v := range vals {
		for w := width - 1; w >= 0; w-- {
			if v>>uint(w)&1 == 1 {
				out[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
	}
	return out
}

// falconUnpackUnsigned reverses falconPackUnsigned.
func falconUnpackUnsigned(data []byte, width int) []int32 {
	n := len(data) * 8 / width
	out := make([]int32, n)
	bit := 0
	for i := 0; i < n; i++ {
		var v int32
		for w := 0; w < width; w++ {
			v <<= 1
			if data[bit/8]>>uint(7-bit%8)&1 == 1 {
				v |= 1
			}
			bit++
		}
		out[i] = v
	}
	return out
}

// falconPackSigned packs signed coefficients two's-complement at the
// given bit width.
func falconPackSigned(vals []int32, width int) []byte {
	mask := int32(1)<<uint(width) - 1
	unsigned := make([]int32, len(vals))
	for i, v := range vals {
		unsigned[i] = v & mask
	}
	return falconPackUnsigned(unsigned, width)
}

// falconUnpackSigned reverses falconPackSigned.
func falconUnpackSigned(data []byte, width int) []int32 {
	out := falconUnpackUnsigned(data, width)
	sign := int32(1) << uint(width-1)
	for i, v := range out {
		if v&sign != 0 {
			out[i] = v - int32(1)<<uint(width)
		}
	}
	return out
}
