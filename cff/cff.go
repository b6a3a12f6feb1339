// Package cff builds d-cover-free families and locates defective columns
// from group-test outcomes. Three constructions are provided: Sperner set
// systems (d=1), Steiner triple systems (d=2), and Reed-Solomon codes
// (d>=2). Each construction carries a specialised decoder; a general
// decoder working on any binary test matrix is available through the
// Matrix interface.
package cff

import (
	"errors"
	"fmt"
)

// Errors returned by CFF construction and decoding.
var (
	ErrUnknownMethod     = errors.New("cff: unknown construction method")
	ErrUnknownMatrixType = errors.New("cff: unknown matrix representation")
	ErrBadParameters     = errors.New("cff: invalid parameters")
	ErrOutcomeLength     = errors.New("cff: outcome vector length mismatch")
	ErrImpossibleOutcome = errors.New("cff: outcome vector is structurally impossible")
)

// Method identifies a CFF construction.
type Method int

const (
	// Sperner builds a 1-CFF from the subsets of size floor(t/2) of [1,t].
	Sperner Method = iota
	// STS builds a 2-CFF from the point-block incidence of a Steiner
	// triple system.
	STS
	// RS builds a d-CFF from Reed-Solomon codewords over a prime field.
	RS
)

// String returns the wire name of the method as carried in signature
// metadata.
func (m Method) String() string {
	switch m {
	case Sperner:
		return "sperner"
	case STS:
		return "sts"
	case RS:
		return "rs"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod parses a wire name back into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "sperner":
		return Sperner, nil
	case "sts":
		return STS, nil
	case "rs":
		return RS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// MatrixType selects the in-memory representation of the test matrix.
type MatrixType int

const (
	// List stores each row as a sorted slice of 1-column indices.
	List MatrixType = iota
	// Compact stores each row as a bit-packed vector of 64-bit words.
	Compact
)

// String returns the wire name of the representation.
func (t MatrixType) String() string {
	switch t {
	case List:
		return "list"
	case Compact:
		return "compact"
	default:
		return fmt.Sprintf("matrixtype(%d)", int(t))
	}
}

// ParseMatrixType parses a wire name back into a MatrixType.
func ParseMatrixType(s string) (MatrixType, error) {
	switch s {
	case "list":
		return List, nil
	case "compact":
		return Compact, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMatrixType, s)
	}
}

// Family is a constructed d-cover-free family: the binary test matrix plus
// the construction state its specialised decoder needs.
type Family struct {
	Method Method
	D      int // defectives the family can locate
	N      int // columns (message blocks)
	T      int // rows (group tests)

	matrix  Matrix
	sperner *spernerSystem
	sts     *tripleSystem
	rs      *rsCode
}

// Build constructs the d-CFF for the given method and parameters. The same
// (method, d, n, mt) always yields the identical family, so a verifier can
// rebuild the signer's matrix from signature metadata alone.
func Build(method Method, d, n int, mt MatrixType) (*Family, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d = %d, need d >= 1", ErrBadParameters, d)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: n = %d, need n >= 1", ErrBadParameters, n)
	}
	switch method {
	case Sperner:
		return buildSperner(d, n, mt)
	case STS:
		return buildSTS(d, n, mt)
	case RS:
		return buildRS(d, n, mt)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}
}

// Matrix returns the family's test matrix.
func (f *Family) Matrix() Matrix {
	return f.matrix
}

// FindDefectives decodes the test-outcome vector y (y[i] = 1 means the
// group test of row i failed) into the 1-based indices of defective
// columns. With specific = false the general complement decoder runs on
// the matrix; otherwise the construction's own decoder runs.
//
// The boolean result is true when the decoder located a set of at most D
// columns it is certain of; false signals ambiguity, in which case the
// returned indices are candidates only.
func (f *Family) FindDefectives(y []uint8, specific bool) ([]int, bool, error) {
	if len(y) != f.T {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrOutcomeLength, len(y), f.T)
	}
	if !specific {
		cols, ok := f.matrix.FindDefectivesGeneral(y, f.D)
		out := make([]int, len(cols))
		for i, c := range cols {
			out[i] = c + 1
		}
		return out, ok, nil
	}
	switch f.Method {
	case Sperner:
		return f.sperner.decode(y)
	case STS:
		return f.sts.decode(y)
	case RS:
		return f.rs.decode(y)
	default:
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownMethod, int(f.Method))
	}
}

// Validate exhaustively checks the cover-free property: for every column c
// and every set S of at most D other columns there is a row containing c
// and none of S. Exponential in D; intended for tests on small families.
func (f *Family) Validate() error {
	cols := make([][]int, f.N)
	for i := 0; i < f.T; i++ {
		for _, j := range f.matrix.GetRow(i) {
			cols[j] = append(cols[j], i)
		}
	}
	rowHas := make([]map[int]bool, f.T)
	for i := 0; i < f.T; i++ {
		rowHas[i] = make(map[int]bool)
		for _, j := range f.matrix.GetRow(i) {
			rowHas[i][j] = true
		}
	}

	others := make([]int, 0, f.N-1)
	for c := 0; c < f.N; c++ {
		others = others[:0]
		for j := 0; j < f.N; j++ {
			if j != c {
				others = append(others, j)
			}
		}
		if !coverFreeFor(c, cols[c], rowHas, others, f.D) {
			return fmt.Errorf("cff: column %d is covered by %d others", c, f.D)
		}
	}
	return nil
}

// coverFreeFor checks column c against every subset of others of size at
// most d.
func coverFreeFor(c int, rowsOfC []int, rowHas []map[int]bool, others []int, d int) bool {
	chosen := make([]int, 0, d)
	var rec func(start, left int) bool
	rec = func(start, left int) bool {
		if left == 0 || start == len(others) {
			// Some row of c must avoid every chosen column.
			for _, r := range rowsOfC {
				hit := false
				for _, s := range chosen {
					if rowHas[r][s] {
						hit = true
						break
					}
				}
				if !hit {
					return true
				}
			}
			return false
		}
		for i := start; i < len(others); i++ {
			chosen = append(chosen, others[i])
			if !rec(i+1, left-1) {
				return false
			}
			chosen = chosen[:len(chosen)-1]
		}
		// Subsets smaller than d are dominated by the size-d ones that
		// extend them, but the leaf above already covered the exact-size
		// case for every branch.
		return true
	}
	return rec(0, d)
}
