// rsdecode.go locates defective columns of the Reed-Solomon family from
// the test-outcome vector. Positive rows are grouped per codeword
// position; the decoder then searches for at most d polynomials of degree
// < k whose evaluations stay inside the positive symbol sets and jointly
// consume every positive symbol.
//
// Candidate polynomials are seeded on a window of k consecutive positions
// and completed in both directions with the finite-difference identity (a
// degree < k polynomial has vanishing k-th differences), so each candidate
// costs O(N) to check instead of a k-point interpolation per tuple. Only a
// codeword that survives the full extension is interpolated, via a
// Vandermonde inverse computed by modular Gauss-Jordan elimination.
package cff

import "sort"

// rsPositions is the per-position view of the positive rows.
type rsPositions struct {
	symbols [][]int64 // positive symbols per position, ascending
	used    [][]bool  // parallel to symbols
	count   []int     // unused symbols per position
	member  []map[int64]bool
}

// decode recovers the defective columns, 1-based. The boolean result is
// false when the outcome exceeds the decoder's capacity or no polynomial
// cover exists; the returned columns are then the partial set recovered
// before the search stalled.
func (rc *rsCode) decode(y []uint8) ([]int, bool, error) {
	d := (rc.nn - 1) / (rc.k - 1)
	pos := &rsPositions{
		symbols: make([][]int64, rc.nn),
		used:    make([][]bool, rc.nn),
		count:   make([]int, rc.nn),
		member:  make([]map[int64]bool, rc.nn),
	}
	remainingSymbols := 0
	anyPositive := false
	for j := 0; j < rc.nn; j++ {
		pos.member[j] = make(map[int64]bool)
		for a := int64(0); a < rc.q; a++ {
			if y[j*int(rc.q)+int(a)] != 0 {
				pos.symbols[j] = append(pos.symbols[j], a)
				pos.member[j][a] = true
			}
		}
		pos.used[j] = make([]bool, len(pos.symbols[j]))
		pos.count[j] = len(pos.symbols[j])
		remainingSymbols += pos.count[j]
		if pos.count[j] > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil, true, nil
	}
	for j := 0; j < rc.nn; j++ {
		if len(pos.symbols[j]) > d {
			// More symbols in one position than locatable defectives.
			return nil, false, nil
		}
	}

	var located []int
	for remainingSymbols > 0 {
		if len(located) >= d {
			// Unconsumed symbols left but the defective budget is spent.
			sort.Ints(located)
			return located, false, nil
		}
		consumed, col := rc.findPolynomial(pos, d-len(located))
		if consumed == 0 {
			sort.Ints(located)
			return located, false, nil
		}
		remainingSymbols -= consumed
		located = append(located, col)
	}

	sort.Ints(located)
	return located, len(located) <= d, nil
}

// findPolynomial searches for one polynomial consuming the first still-
// unused symbol. It returns the number of symbols newly consumed (zero
// when no polynomial fits) and the recovered 1-based column.
func (rc *rsCode) findPolynomial(pos *rsPositions, remaining int) (int, int) {
	// Anchor: the smallest position with an unused symbol.
	p := -1
	for j := 0; j < rc.nn; j++ {
		if pos.count[j] > 0 {
			p = j
			break
		}
	}
	if p < 0 {
		return 0, 0
	}

	// Window of k consecutive positions containing p, clamped to the
	// codeword.
	start := p
	if start > rc.nn-rc.k {
		start = rc.nn - rc.k
	}
	if start < 0 {
		start = 0
	}

	// Per window position: candidate symbols, unused first, and the
	// number of candidates actually tried.
	cands := make([][]int64, rc.k)
	radix := make([]int, rc.k)
	for wi := 0; wi < rc.k; wi++ {
		j := start + wi
		ordered := make([]int64, 0, len(pos.symbols[j]))
		for si, s := range pos.symbols[j] {
			if !pos.used[j][si] {
				ordered = append(ordered, s)
			}
		}
		for si, s := range pos.symbols[j] {
			if pos.used[j][si] {
				ordered = append(ordered, s)
			}
		}
		cands[wi] = ordered
		switch {
		case j == p:
			radix[wi] = 1
		case pos.count[j] == remaining:
			radix[wi] = pos.count[j]
		default:
			radix[wi] = len(pos.symbols[j])
		}
		if radix[wi] == 0 {
			return 0, 0
		}
	}

	binom := pascalRow(rc.k)
	idx := make([]int, rc.k)
	full := make([]int64, rc.nn)
	for {
		for wi := 0; wi < rc.k; wi++ {
			full[start+wi] = cands[wi][idx[wi]]
		}
		if rc.extend(full, start, binom, pos) {
			if col, ok := rc.acceptCodeword(full, start, pos); ok {
				return rc.consume(full, pos), col
			}
		}

		// Mixed-radix successor over the candidate tuples.
		wi := rc.k - 1
		for wi >= 0 {
			idx[wi]++
			if idx[wi] < radix[wi] {
				break
			}
			idx[wi] = 0
			wi--
		}
		if wi < 0 {
			return 0, 0
		}
	}
}

// extend completes the window to a full codeword with the k-th finite
// difference identity, forward then backward, rejecting as soon as a
// position leaves its positive symbol set:
//
//	f(i) = sum_{j=1..k} (-1)^(j-1) C(k,j) f(i-j)   (and mirrored below)
func (rc *rsCode) extend(full []int64, start int, binom []int64, pos *rsPositions) bool {
	for i := start + rc.k; i < rc.nn; i++ {
		var acc int64
		for j := 1; j <= rc.k; j++ {
			term := modMul(binom[j], full[i-j], rc.q)
			if j%2 == 1 {
				acc = modAdd(acc, term, rc.q)
			} else {
				acc = modSub(acc, term, rc.q)
			}
		}
		if !pos.member[i][acc] {
			return false
		}
		full[i] = acc
	}
	for i := start - 1; i >= 0; i-- {
		var acc int64
		for j := 1; j <= rc.k; j++ {
			term := modMul(binom[j], full[i+j], rc.q)
			if j%2 == 1 {
				acc = modAdd(acc, term, rc.q)
			} else {
				acc = modSub(acc, term, rc.q)
			}
		}
		if !pos.member[i][acc] {
			return false
		}
		full[i] = acc
	}
	return true
}

// acceptCodeword interpolates the window back to polynomial coefficients
// and maps them to a column index. Codewords outside the first n columns
// are rejected so the search keeps going.
func (rc *rsCode) acceptCodeword(full []int64, start int, pos *rsPositions) (int, bool) {
	// Vandermonde on the window's x-values: V[i][j] = x_i^(k-1-j).
	v := make([][]int64, rc.k)
	w := make([]int64, rc.k)
	for i := 0; i < rc.k; i++ {
		x := int64(start+i) % rc.q
		v[i] = make([]int64, rc.k)
		for j := 0; j < rc.k; j++ {
			v[i][j] = powMod(x, int64(rc.k-1-j), rc.q)
		}
		w[i] = full[start+i]
	}
	vinv, err := matInvMod(v, rc.q)
	if err != nil {
		return 0, false
	}
	coeffs := matVecMod(vinv, w, rc.q)

	col := rc.columnIndex(coeffs)
	if col >= int64(rc.n) {
		return 0, false
	}
	return int(col) + 1, true
}

// consume marks the codeword's symbol at every position as used and
// returns how many were newly consumed.
func (rc *rsCode) consume(full []int64, pos *rsPositions) int {
	consumed := 0
	for j := 0; j < rc.nn; j++ {
		for si, s := range pos.symbols[j] {
			if s == full[j] && !pos.used[j][si] {
				pos.used[j][si] = true
				pos.count[j]--
				consumed++
			}
		}
	}
	return consumed
}

// pascalRow returns C(k, 0..k) as int64.
func pascalRow(k int) []int64 {
	row := make([]int64, k+1)
	row[0] = 1
	for j := 1; j <= k; j++ {
		row[j] = row[j-1] * int64(k-j+1) / int64(j)
	}
	return row
}
