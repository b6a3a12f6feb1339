// sperner.go builds a 1-cover-free family from a Sperner set system: the
// columns are the first n subsets of [1,t] of size floor(t/2) in
// lexicographic order, and row x flags the subsets containing element x.
// Enumeration and ranking follow Stinson's successor (Algorithm 2.6) and
// ranking (Algorithm 2.7) algorithms for k-subsets.
//
// Binomial coefficients are computed in 256-bit integers so the smallest-t
// search and subset ranking stay exact for any block count.
package cff

import (
	"fmt"

	"github.com/holiman/uint256"
)

// spernerSystem holds the construction state the specialised decoder needs.
type spernerSystem struct {
	t int // ground-set size, also the number of rows
	k int // subset size, floor(t/2)
	n int // columns
}

// buildSperner constructs the Sperner 1-CFF for n columns.
func buildSperner(d, n int, mt MatrixType) (*Family, error) {
	if d != 1 {
		return nil, fmt.Errorf("%w: sperner requires d = 1, got %d", ErrBadParameters, d)
	}

	// Smallest t with C(t, floor(t/2)) >= n.
	t := 2
	for !binomialAtLeast(t, t/2, n) {
		t++
	}
	k := t / 2

	sys := &spernerSystem{t: t, k: k, n: n}
	m := NewMatrix(mt, t, n)

	// Walk the first n k-subsets in lexicographic order; subset elements
	// are 1-based, rows 0-based.
	subset := firstSubset(k)
	for c := 0; c < n; c++ {
		for _, x := range subset {
			m.Set(x-1, c)
		}
		if c+1 < n {
			subset = successorSubset(subset, t)
		}
	}

	return &Family{
		Method:  Sperner,
		D:       1,
		N:       n,
		T:       t,
		matrix:  m,
		sperner: sys,
	}, nil
}

// firstSubset returns {1, 2, ..., k}.
func firstSubset(k int) []int {
	s := make([]int, k)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

// successorSubset advances a sorted k-subset of [1,t] to its lexicographic
// successor (Stinson, Algorithm 2.6). Returns nil on the last subset.
func successorSubset(s []int, t int) []int {
	k := len(s)
	out := make([]int, k)
	copy(out, s)

	i := k - 1
	for i >= 0 && out[i] == t-k+i+1 {
		i--
	}
	if i < 0 {
		return nil
	}
	out[i]++
	for j := i + 1; j < k; j++ {
		out[j] = out[i] + (j - i)
	}
	return out
}

// rankSubset returns the 1-based lexicographic rank of a sorted k-subset
// of [1,t] (Stinson, Algorithm 2.7):
//
//	rank = 1 + sum_i sum_{j=a_{i-1}+1}^{a_i-1} C(t-j, k-i)
func rankSubset(s []int, t int) *uint256.Int {
	k := len(s)
	rank := uint256.NewInt(1)
	prev := 0
	for i := 1; i <= k; i++ {
		for j := prev + 1; j < s[i-1]; j++ {
			rank.Add(rank, binomial(t-j, k-i))
		}
		prev = s[i-1]
	}
	return rank
}

// binomial returns C(a, b) as a 256-bit integer. C(a, b) = 0 when b < 0 or
// b > a.
func binomial(a, b int) *uint256.Int {
	if b < 0 || b > a {
		return uint256.NewInt(0)
	}
	if b > a-b {
		b = a - b
	}
	r := uint256.NewInt(1)
	tmp := new(uint256.Int)
	for i := 1; i <= b; i++ {
		r.Mul(r, tmp.SetUint64(uint64(a-b+i)))
		r.Div(r, tmp.SetUint64(uint64(i)))
	}
	return r
}

// binomialAtLeast reports whether C(a, b) >= n.
func binomialAtLeast(a, b, n int) bool {
	return !binomial(a, b).LtUint64(uint64(n))
}

// decode maps the outcome vector back to defective columns. A single
// defective column produces exactly k positive rows, namely the elements
// of its subset; ranking that subset recovers the column. More than k
// positive rows means several blocks changed: every k-subset of the
// positives with a rank within [1, n] is reported as a candidate and the
// decoder signals ambiguity.
func (s *spernerSystem) decode(y []uint8) ([]int, bool, error) {
	positives := make([]int, 0, s.t)
	for i, outcome := range y {
		if outcome != 0 {
			positives = append(positives, i+1)
		}
	}

	switch {
	case len(positives) == 0:
		return nil, true, nil

	case len(positives) == s.k:
		rank := rankSubset(positives, s.t)
		if rank.GtUint64(uint64(s.n)) {
			return nil, false, nil
		}
		return []int{int(rank.Uint64())}, true, nil

	case len(positives) > s.k:
		var candidates []int
		forEachSubset(positives, s.k, func(sub []int) {
			rank := rankSubset(sub, s.t)
			if !rank.GtUint64(uint64(s.n)) {
				candidates = append(candidates, int(rank.Uint64()))
			}
		})
		return candidates, false, nil

	default:
		// Fewer positives than k cannot arise from a single defective.
		return nil, false, nil
	}
}

// forEachSubset calls fn with every sorted k-subset of the sorted slice
// elems. The callback slice is reused between calls.
func forEachSubset(elems []int, k int, fn func([]int)) {
	sub := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			fn(sub)
			return
		}
		for i := start; i <= len(elems)-(k-depth); i++ {
			sub[depth] = elems[i]
			rec(i+1, depth+1)
		}
	}
	if k >= 0 && k <= len(elems) {
		rec(0, 0)
	}
}
