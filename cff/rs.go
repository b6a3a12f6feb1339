// rs.go builds a d-cover-free family from a Reed-Solomon code over a prime
// field: columns are codewords (evaluations of degree < k polynomials at
// x = 0..N-1), rows are (position, symbol) pairs. Two distinct polynomials
// of degree < k agree on at most k-1 positions, so d codewords cover at
// most d(k-1) < N positions of any other codeword.
package cff

import (
	"fmt"
)

// rsSearchCap bounds the codeword space q^k considered by the parameter
// search; beyond it the decoder's polynomial search is impractical anyway.
const rsSearchCap = int64(1) << 40

// rsCode holds the construction state for the specialised decoder.
type rsCode struct {
	k  int   // polynomial coefficients (degree < k)
	nn int   // codeword length N
	q  int64 // prime field order
	n  int   // columns kept from the enumeration
}

// buildRS constructs the RS-based d-CFF for n columns.
func buildRS(d, n int, mt MatrixType) (*Family, error) {
	if d < 2 {
		return nil, fmt.Errorf("%w: rs requires d >= 2, got %d", ErrBadParameters, d)
	}

	k, N, q, err := chooseRSParams(d, n)
	if err != nil {
		return nil, err
	}

	code := &rsCode{k: k, nn: N, q: q, n: n}
	t := N * int(q)
	m := NewMatrix(mt, t, n)
	for c := 0; c < n; c++ {
		cw := code.codeword(int64(c))
		for j := 0; j < N; j++ {
			m.Set(j*int(q)+int(cw[j]), c)
		}
	}

	return &Family{
		Method: RS,
		D:      d,
		N:      n,
		T:      t,
		matrix: m,
		rs:     code,
	}, nil
}

// chooseRSParams searches (k, N, q) with q prime, N = d(k-1)+1 <= q and
// q^k >= n, minimising the codeword space q^k (the dominating cost of both
// enumeration and decoding); ties prefer fewer rows (smaller N*q).
func chooseRSParams(d, n int) (k, N int, q int64, err error) {
	bestCost := int64(-1)
	for kk := 2; kk <= 64; kk++ {
		nn := d*(kk-1) + 1

		// Smallest prime q >= N with q^kk >= n.
		qq := nextPrime(int64(nn))
		for powCapped(qq, kk) < int64(n) {
			qq = nextPrime(qq + 1)
		}
		cost := powCapped(qq, kk)
		if cost > rsSearchCap {
			if bestCost < 0 {
				continue
			}
			break
		}
		rows := int64(nn) * qq
		if bestCost < 0 || cost < bestCost ||
			(cost == bestCost && rows < int64(N)*q) {
			bestCost, k, N, q = cost, kk, nn, qq
		}
		// Once N alone forces the cost past the best found, no larger k
		// can win.
		if bestCost >= 0 && powCapped(int64(nn), kk) > bestCost {
			break
		}
	}
	if bestCost < 0 {
		return 0, 0, 0, fmt.Errorf("%w: no RS parameters for d = %d, n = %d", ErrBadParameters, d, n)
	}
	return k, N, q, nil
}

// powCapped returns b^e, saturating at rsSearchCap+1 to avoid overflow.
func powCapped(b int64, e int) int64 {
	r := int64(1)
	for i := 0; i < e; i++ {
		if r > rsSearchCap/b {
			return rsSearchCap + 1
		}
		r *= b
	}
	return r
}

// codeword evaluates the c-th polynomial at x = 0..N-1 by Horner's rule.
// The coefficients are the base-q digits of c, most significant first, so
// digit 0 is the leading coefficient. In the extended case N = q+1 the
// final position carries the leading coefficient itself.
func (rc *rsCode) codeword(c int64) []int64 {
	coeffs := rc.coefficients(c)
	out := make([]int64, rc.nn)
	for j := 0; j < rc.nn; j++ {
		if int64(j) == rc.q {
			out[j] = coeffs[0]
			continue
		}
		var acc int64
		for _, g := range coeffs {
			acc = modAdd(modMul(acc, int64(j), rc.q), g, rc.q)
		}
		out[j] = acc
	}
	return out
}

// coefficients returns the base-q digits of c, most significant first.
func (rc *rsCode) coefficients(c int64) []int64 {
	out := make([]int64, rc.k)
	for i := rc.k - 1; i >= 0; i-- {
		out[i] = c % rc.q
		c /= rc.q
	}
	return out
}

// columnIndex is the inverse of coefficients: the 0-based enumeration
// index of the polynomial with the given coefficients.
func (rc *rsCode) columnIndex(coeffs []int64) int64 {
	var c int64
	for _, g := range coeffs {
		c = c*rc.q + g
	}
	return c
}
