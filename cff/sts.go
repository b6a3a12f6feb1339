// sts.go builds a 2-cover-free family from a Steiner triple system: the
// rows are the v points, the columns are the first n triples. Two triples
// share at most one point, so the union of any two other columns misses at
// least one point of every column.
//
// Orders v = 3 (mod 6) use the Bose construction over an idempotent
// commutative quasigroup; orders v = 1 (mod 6) use the Skolem construction
// over a half-idempotent commutative quasigroup with an extra infinity
// point. Decoding works from two precomputed tables: third[a][b], the
// point completing the unique triple through {a, b}, and rank[a][b], that
// triple's 1-based index.
package cff

import (
	"fmt"
	"sort"
)

// stsMinBlocks is the smallest supported column count; below 7 blocks the
// smallest Steiner triple system (v = 7) is larger than needed and the
// Sperner or RS constructions apply instead.
const stsMinBlocks = 7

// tripleSystem holds the generated system and its decoder tables.
type tripleSystem struct {
	v       int      // points, also the number of rows
	n       int      // columns kept from the block list
	triples [][3]int // all blocks, 1-based points, enumeration order
	third   [][]int  // third[a][b] = point completing {a, b}, 0 if none
	rank    [][]int  // rank[a][b] = 1-based block index through {a, b}
}

// buildSTS constructs the STS-based 2-CFF for n columns.
func buildSTS(d, n int, mt MatrixType) (*Family, error) {
	if d != 2 {
		return nil, fmt.Errorf("%w: sts requires d = 2, got %d", ErrBadParameters, d)
	}
	if n < stsMinBlocks {
		return nil, fmt.Errorf("%w: sts requires n >= %d, got %d", ErrBadParameters, stsMinBlocks, n)
	}

	// Smallest admissible order with enough blocks: v = 1, 3 (mod 6) and
	// v(v-1)/6 >= n.
	v := 7
	for !(v%6 == 1 || v%6 == 3) || v*(v-1)/6 < n {
		v++
	}

	var triples [][3]int
	if v%6 == 3 {
		triples = boseTriples(v)
	} else {
		triples = skolemTriples(v)
	}

	sys := &tripleSystem{v: v, n: n, triples: triples}
	sys.third = make([][]int, v+1)
	sys.rank = make([][]int, v+1)
	for i := 1; i <= v; i++ {
		sys.third[i] = make([]int, v+1)
		sys.rank[i] = make([]int, v+1)
	}
	for idx, tr := range triples {
		a, b, c := tr[0], tr[1], tr[2]
		sys.third[a][b], sys.third[b][a] = c, c
		sys.third[a][c], sys.third[c][a] = b, b
		sys.third[b][c], sys.third[c][b] = a, a
		sys.rank[a][b], sys.rank[b][a] = idx+1, idx+1
		sys.rank[a][c], sys.rank[c][a] = idx+1, idx+1
		sys.rank[b][c], sys.rank[c][b] = idx+1, idx+1
	}

	m := NewMatrix(mt, v, n)
	for c := 0; c < n; c++ {
		for _, p := range triples[c] {
			m.Set(p-1, c)
		}
	}

	return &Family{
		Method: STS,
		D:      2,
		N:      n,
		T:      v,
		matrix: m,
		sts:    sys,
	}, nil
}

// bosePoint numbers the point (x, class) of the Bose construction, 1-based.
func bosePoint(x, class int) int {
	return 3*x + class + 1
}

// boseTriples generates the blocks of an STS(v) for v = 3 (mod 6) via the
// Bose construction: points Z_q x {0,1,2} with q = v/3, quasigroup
// x o y = ((q+1)/2)(x+y) mod q.
func boseTriples(v int) [][3]int {
	q := v / 3
	half := (q + 1) / 2
	var out [][3]int

	// One block per quasigroup element across the three classes.
	for x := 0; x < q; x++ {
		out = append(out, sortedTriple(
			bosePoint(x, 0), bosePoint(x, 1), bosePoint(x, 2)))
	}

	// Mixed blocks from unordered pairs of distinct elements.
	for x := 0; x < q; x++ {
		for y := x + 1; y < q; y++ {
			z := half * (x + y) % q
			for class := 0; class < 3; class++ {
				out = append(out, sortedTriple(
					bosePoint(x, class),
					bosePoint(y, class),
					bosePoint(z, (class+1)%3)))
			}
		}
	}
	return out
}

// skolemTriples generates the blocks of an STS(v) for v = 1 (mod 6) via
// the Skolem construction: points Z_2m x {0,1,2} plus an infinity point
// (numbered v), with the half-idempotent quasigroup x o y = h(x + y mod
// 2m) where h(2j) = j and h(2j+1) = m + j.
func skolemTriples(v int) [][3]int {
	m := (v - 1) / 6
	order := 2 * m
	inf := v

	point := func(x, class int) int { return 3*x + class + 1 }
	h := func(s int) int {
		s %= order
		if s%2 == 0 {
			return s / 2
		}
		return m + (s-1)/2
	}

	var out [][3]int

	// Idempotent part of the diagonal.
	for i := 0; i < m; i++ {
		out = append(out, sortedTriple(point(i, 0), point(i, 1), point(i, 2)))
	}

	// Infinity blocks from the half-idempotent diagonal remainder.
	for i := 0; i < m; i++ {
		out = append(out, sortedTriple(inf, point(m+i, 0), point(i, 1)))
		out = append(out, sortedTriple(inf, point(m+i, 1), point(i, 2)))
		out = append(out, sortedTriple(inf, point(m+i, 2), point(i, 0)))
	}

	// Mixed blocks from unordered pairs of distinct elements.
	for x := 0; x < order; x++ {
		for y := x + 1; y < order; y++ {
			z := h(x + y)
			for class := 0; class < 3; class++ {
				out = append(out, sortedTriple(
					point(x, class), point(y, class), point(z, (class+1)%3)))
			}
		}
	}
	return out
}

// sortedTriple orders three distinct points ascending.
func sortedTriple(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// decode maps the outcome vector to defective columns. s positive points
// arise as the union of the defective triples: s = 3 for one defective,
// s = 5 or 6 for two (sharing one point or none). s = 4 cannot occur in a
// triple system and is rejected as invalid input; s > 6 exceeds d = 2 and
// yields candidates only.
func (ts *tripleSystem) decode(y []uint8) ([]int, bool, error) {
	positives := make([]int, 0, ts.v)
	for i, outcome := range y {
		if outcome != 0 {
			positives = append(positives, i+1)
		}
	}

	switch s := len(positives); {
	case s == 0:
		return nil, true, nil

	case s < 3:
		// One or two positives cannot be the union of whole triples.
		return nil, false, nil

	case s == 3:
		a, b, c := positives[0], positives[1], positives[2]
		if ts.third[a][b] != c {
			return nil, false, nil
		}
		r := ts.rank[a][b]
		if r > ts.n {
			return nil, false, nil
		}
		return []int{r}, true, nil

	case s == 4:
		// The union of at most two triples never has exactly 4 points.
		return nil, false, fmt.Errorf("%w: 4 positive rows in a triple system", ErrImpossibleOutcome)

	case s == 5 || s == 6:
		return ts.decodePair(positives)

	default:
		// More than two defectives: complete every positive pair and
		// report the distinct triples found as candidates.
		var candidates []int
		seen := make(map[int]bool)
		for i := 0; i < len(positives); i++ {
			for j := i + 1; j < len(positives); j++ {
				a, b := positives[i], positives[j]
				c := ts.third[a][b]
				if c == 0 || !contains(positives, c) {
					continue
				}
				r := ts.rank[a][b]
				if r <= ts.n && !seen[r] {
					seen[r] = true
					candidates = append(candidates, r)
				}
			}
		}
		sort.Ints(candidates)
		return candidates, false, nil
	}
}

// decodePair handles the two-defective cases: 5 positives when the triples
// share a point, 6 when they are disjoint. Every triple completed inside
// the positive set is collected, then a pair of them covering all
// positives is searched. A unique cover decodes exactly; several covers
// are ambiguous.
func (ts *tripleSystem) decodePair(positives []int) ([]int, bool, error) {
	type cand struct {
		rank   int
		points [3]int
	}
	var found []cand
	seen := make(map[int]bool)
	for i := 0; i < len(positives); i++ {
		for j := i + 1; j < len(positives); j++ {
			a, b := positives[i], positives[j]
			c := ts.third[a][b]
			if c == 0 || !contains(positives, c) {
				continue
			}
			r := ts.rank[a][b]
			if r > ts.n || seen[r] {
				continue
			}
			seen[r] = true
			found = append(found, cand{rank: r, points: sortedTriple(a, b, c)})
		}
	}

	var covers [][]int
	for i := 0; i < len(found); i++ {
		for j := i + 1; j < len(found); j++ {
			if coversAll(positives, found[i].points, found[j].points) {
				covers = append(covers, []int{found[i].rank, found[j].rank})
			}
		}
	}

	switch len(covers) {
	case 0:
		return nil, false, nil
	case 1:
		out := covers[0]
		sort.Ints(out)
		return out, true, nil
	default:
		// Several pairs explain the outcome: report the union of their
		// ranks as candidates.
		var candidates []int
		dup := make(map[int]bool)
		for _, cv := range covers {
			for _, r := range cv {
				if !dup[r] {
					dup[r] = true
					candidates = append(candidates, r)
				}
			}
		}
		sort.Ints(candidates)
		return candidates, false, nil
	}
}

// coversAll reports whether the union of two triples equals the positive
// set.
func coversAll(positives []int, a, b [3]int) bool {
	in := func(p int) bool {
		return p == a[0] || p == a[1] || p == a[2] || p == b[0] || p == b[1] || p == b[2]
	}
	for _, p := range positives {
		if !in(p) {
			return false
		}
	}
	return true
}

// contains reports whether the sorted slice holds p.
func contains(sorted []int, p int) bool {
	i := sort.SearchInts(sorted, p)
	return i < len(sorted) && sorted[i] == p
}
