package cff

import (
	"errors"
	"reflect"
	"testing"
)

func TestSTSOrderSelection(t *testing.T) {
	cases := []struct {
		n, wantV int
	}{
		{7, 7},   // 7*6/6 = 7 blocks, Skolem
		{8, 9},   // 9*8/6 = 12 blocks, Bose
		{12, 9},  //
		{13, 13}, // 13*12/6 = 26 blocks, Skolem
		{26, 13}, //
		{27, 15}, // 15*14/6 = 35 blocks, Bose
	}
	for _, c := range cases {
		f, err := Build(STS, 2, c.n, List)
		if err != nil {
			t.Fatalf("n=%d: %v", c.n, err)
		}
		if f.T != c.wantV {
			t.Errorf("n=%d: v = %d, want %d", c.n, f.T, c.wantV)
		}
	}
}

func TestSTSParameterErrors(t *testing.T) {
	if _, err := Build(STS, 1, 10, List); err == nil {
		t.Error("expected error for d != 2")
	}
	if _, err := Build(STS, 2, 6, List); err == nil {
		t.Error("expected error for n < 7")
	}
}

func TestSteinerPairCoverage(t *testing.T) {
	// Every point pair of the order must lie in exactly one triple, for
	// both a Bose order and a Skolem order.
	for _, v := range []int{9, 15, 7, 13, 19} {
		var triples [][3]int
		if v%6 == 3 {
			triples = boseTriples(v)
		} else {
			triples = skolemTriples(v)
		}
		if want := v * (v - 1) / 6; len(triples) != want {
			t.Fatalf("v=%d: %d triples, want %d", v, len(triples), want)
		}
		seen := make(map[[2]int]int)
		for _, tr := range triples {
			pairs := [][2]int{{tr[0], tr[1]}, {tr[0], tr[2]}, {tr[1], tr[2]}}
			for _, p := range pairs {
				if p[0] < 1 || p[1] > v || p[0] >= p[1] {
					t.Fatalf("v=%d: bad pair %v in triple %v", v, p, tr)
				}
				seen[p]++
			}
		}
		for a := 1; a <= v; a++ {
			for b := a + 1; b <= v; b++ {
				if seen[[2]int{a, b}] != 1 {
					t.Fatalf("v=%d: pair (%d,%d) covered %d times", v, a, b, seen[[2]int{a, b}])
				}
			}
		}
	}
}

func TestSTSCoverFree(t *testing.T) {
	for _, n := range []int{7, 10, 20} {
		f, err := Build(STS, 2, n, List)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if err := f.Validate(); err != nil {
			t.Errorf("n=%d: %v", n, err)
		}
	}
}

func TestSTSDecodeSingleDefective(t *testing.T) {
	f, err := Build(STS, 2, 12, List)
	if err != nil {
		t.Fatal(err)
	}
	for col := 0; col < f.N; col++ {
		y := outcomeForDefectives(f, []int{col})
		got, ok, err := f.FindDefectives(y, true)
		if err != nil {
			t.Fatalf("col %d: %v", col, err)
		}
		if !ok || !reflect.DeepEqual(got, []int{col + 1}) {
			t.Fatalf("col %d: located %v ok=%v, want [%d] true", col, got, ok, col+1)
		}
	}
}

func TestSTSDecodePairs(t *testing.T) {
	// Every pair of defective columns must be located; 5 positives when
	// the triples share a point, 6 when disjoint. Ambiguous geometries
	// (several covering pairs) may surface as candidate sets instead.
	f, err := Build(STS, 2, 12, List)
	if err != nil {
		t.Fatal(err)
	}
	for a := 0; a < f.N; a++ {
		for b := a + 1; b < f.N; b++ {
			y := outcomeForDefectives(f, []int{a, b})
			got, ok, err := f.FindDefectives(y, true)
			if err != nil {
				t.Fatalf("pair (%d,%d): %v", a, b, err)
			}
			if ok {
				if !reflect.DeepEqual(got, []int{a + 1, b + 1}) {
					t.Fatalf("pair (%d,%d): located %v", a, b, got)
				}
			} else if !containsAll(got, []int{a + 1, b + 1}) {
				t.Fatalf("pair (%d,%d): candidates %v miss the true columns", a, b, got)
			}
		}
	}
}

func TestSTSDecodeNoDefectives(t *testing.T) {
	f, err := Build(STS, 2, 7, List)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := f.FindDefectives(make([]uint8, f.T), true)
	if err != nil || !ok || len(got) != 0 {
		t.Fatalf("got %v ok=%v err=%v, want empty true nil", got, ok, err)
	}
}

func TestSTSDecodeFourPositivesImpossible(t *testing.T) {
	f, err := Build(STS, 2, 7, List)
	if err != nil {
		t.Fatal(err)
	}
	y := make([]uint8, f.T)
	for i := 0; i < 4; i++ {
		y[i] = 1
	}
	_, _, err = f.FindDefectives(y, true)
	if !errors.Is(err, ErrImpossibleOutcome) {
		t.Fatalf("err = %v, want ErrImpossibleOutcome", err)
	}
}

func TestSTSDecodeOverCapacity(t *testing.T) {
	// Three defectives with disjoint triples produce more than 6
	// positives; the decoder must flag ambiguity but still offer the
	// true columns as candidates.
	f, err := Build(STS, 2, 27, List)
	if err != nil {
		t.Fatal(err)
	}
	defective := []int{}
	usedPoints := map[int]bool{}
	for col := 0; col < f.N && len(defective) < 3; col++ {
		tr := f.sts.triples[col]
		if usedPoints[tr[0]] || usedPoints[tr[1]] || usedPoints[tr[2]] {
			continue
		}
		usedPoints[tr[0]], usedPoints[tr[1]], usedPoints[tr[2]] = true, true, true
		defective = append(defective, col)
	}
	if len(defective) < 3 {
		t.Fatal("could not pick three disjoint triples")
	}

	y := outcomeForDefectives(f, defective)
	got, ok, err := f.FindDefectives(y, true)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ambiguity beyond d = 2")
	}
	want := make([]int, len(defective))
	for i, c := range defective {
		want[i] = c + 1
	}
	if !containsAll(got, want) {
		t.Fatalf("candidates %v miss the true columns %v", got, want)
	}
}
