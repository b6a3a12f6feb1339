package cff

import (
	"reflect"
	"testing"
)

func TestMatrixRepresentationEquivalence(t *testing.T) {
	cases := []struct {
		name   string
		method Method
		d, n   int
	}{
		{"sperner-4", Sperner, 1, 4},
		{"sperner-20", Sperner, 1, 20},
		{"sts-7", STS, 2, 7},
		{"sts-20", STS, 2, 20},
		{"rs-30", RS, 2, 30},
		{"rs-d3-50", RS, 3, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			list, err := Build(c.method, c.d, c.n, List)
			if err != nil {
				t.Fatalf("build list: %v", err)
			}
			compact, err := Build(c.method, c.d, c.n, Compact)
			if err != nil {
				t.Fatalf("build compact: %v", err)
			}
			if list.T != compact.T {
				t.Fatalf("row counts differ: %d vs %d", list.T, compact.T)
			}
			for i := 0; i < list.T; i++ {
				lr := list.Matrix().GetRow(i)
				cr := compact.Matrix().GetRow(i)
				if len(lr) == 0 && len(cr) == 0 {
					continue
				}
				if !reflect.DeepEqual(lr, cr) {
					t.Fatalf("row %d differs: list %v, compact %v", i, lr, cr)
				}
			}
		})
	}
}

func TestMatrixSetAndGetRow(t *testing.T) {
	for _, mt := range []MatrixType{List, Compact} {
		m := NewMatrix(mt, 3, 130) // spans three words in the compact form
		m.Set(0, 5)
		m.Set(0, 129)
		m.Set(0, 64)
		m.Set(0, 5) // duplicate set must be harmless
		m.Set(2, 0)

		if got, want := m.GetRow(0), []int{5, 64, 129}; !reflect.DeepEqual(got, want) {
			t.Fatalf("row 0 = %v, want %v", got, want)
		}
		if got := m.GetRow(1); len(got) != 0 {
			t.Fatalf("row 1 = %v, want empty", got)
		}
		if got, want := m.GetRow(2), []int{0}; !reflect.DeepEqual(got, want) {
			t.Fatalf("row 2 = %v, want %v", got, want)
		}
		if m.Rows() != 3 || m.Cols() != 130 {
			t.Fatalf("dims = %dx%d, want 3x130", m.Rows(), m.Cols())
		}
	}
}

func TestGeneralDecoderComplement(t *testing.T) {
	// 3x4 matrix: row 0 -> {0,1}, row 1 -> {1,2}, row 2 -> {2,3}.
	for _, mt := range []MatrixType{List, Compact} {
		m := NewMatrix(mt, 3, 4)
		m.Set(0, 0)
		m.Set(0, 1)
		m.Set(1, 1)
		m.Set(1, 2)
		m.Set(2, 2)
		m.Set(2, 3)

		// Rows 0 and 1 negative: columns 0,1,2 clean, defective {3}.
		got, ok := m.FindDefectivesGeneral([]uint8{0, 0, 1}, 1)
		if !ok {
			t.Fatal("decoder reported ambiguity")
		}
		if !reflect.DeepEqual(got, []int{3}) {
			t.Fatalf("defectives = %v, want [3]", got)
		}

		// All rows negative: nothing defective.
		got, ok = m.FindDefectivesGeneral([]uint8{0, 0, 0}, 1)
		if !ok || len(got) != 0 {
			t.Fatalf("all-negative: got %v ok=%v, want empty true", got, ok)
		}

		// All rows positive: everything is a candidate, over budget.
		got, ok = m.FindDefectivesGeneral([]uint8{1, 1, 1}, 1)
		if ok {
			t.Fatal("expected over-budget ambiguity")
		}
		if len(got) != 4 {
			t.Fatalf("candidates = %v, want all 4 columns", got)
		}
	}
}

func TestCompactTailPadding(t *testing.T) {
	// 70 columns: the second word has 6 used bits; the unused 58 tail
	// bits must never be reported as defective.
	m := NewMatrix(Compact, 1, 70)
	for j := 0; j < 70; j++ {
		m.Set(0, j)
	}
	got, ok := m.FindDefectivesGeneral([]uint8{0}, 1)
	if !ok || len(got) != 0 {
		t.Fatalf("tail bits leaked into the defective set: %v", got)
	}
}
