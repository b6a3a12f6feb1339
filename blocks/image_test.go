package blocks

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testPGM renders a rows x cols raster whose pixel (r, c) has value
// r*cols + c, in plain PGM form.
func testPGM(rows, cols int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P2\n# test raster\n%d %d\n255\n", cols, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fmt.Fprintf(&buf, "%d ", (r*cols+c)%256)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func TestSplitImageBySize(t *testing.T) {
	// 4x6 raster, tiles of side 2: 2x3 grid of tiles.
	msg, err := SplitImageBySize(testPGM(4, 6), 2)
	if err != nil {
		t.Fatal(err)
	}
	if msg.N() != 6 {
		t.Fatalf("n = %d, want 6", msg.N())
	}
	// First tile: rows 0-1, cols 0-1 of the raster.
	want := []byte{0, 1, 6, 7}
	if !bytes.Equal(msg.Blocks[0], want) {
		t.Fatalf("tile 0 = %v, want %v", msg.Blocks[0], want)
	}
	// Second tile, row-major order: rows 0-1, cols 2-3.
	want = []byte{2, 3, 8, 9}
	if !bytes.Equal(msg.Blocks[1], want) {
		t.Fatalf("tile 1 = %v, want %v", msg.Blocks[1], want)
	}
}

func TestSplitImageClampedTiles(t *testing.T) {
	// 5x5 raster with side 2: border tiles shrink to cover the raster
	// exactly once.
	msg, err := SplitImageBySize(testPGM(5, 5), 2)
	if err != nil {
		t.Fatal(err)
	}
	if msg.N() != 9 {
		t.Fatalf("n = %d, want 9", msg.N())
	}
	total := 0
	for _, b := range msg.Blocks {
		total += len(b)
	}
	if total != 25 {
		t.Fatalf("tiles cover %d pixels, want 25", total)
	}
	// Bottom-right tile is the single corner pixel.
	last := msg.Blocks[msg.N()-1]
	if len(last) != 1 || last[0] != 24 {
		t.Fatalf("corner tile = %v, want [24]", last)
	}
}

func TestSplitImageOversizedSide(t *testing.T) {
	// A side beyond both dimensions collapses to one tile of side
	// max(rows, cols).
	msg, err := SplitImageBySize(testPGM(3, 4), 99)
	if err != nil {
		t.Fatal(err)
	}
	if msg.N() != 1 || len(msg.Blocks[0]) != 12 {
		t.Fatalf("n = %d, tile size %d, want 1 tile of 12", msg.N(), len(msg.Blocks[0]))
	}
	if msg.BlockSize != 4 {
		t.Fatalf("BlockSize = %d, want 4", msg.BlockSize)
	}
}

func TestSplitImageByCount(t *testing.T) {
	// 6x6 raster into 9 tiles: side = sqrt(36/9) = 2.
	msg, err := SplitImageByCount(testPGM(6, 6), 9)
	if err != nil {
		t.Fatal(err)
	}
	if msg.BlockSize != 2 || msg.N() != 9 {
		t.Fatalf("n = %d side = %d, want 9 and 2", msg.N(), msg.BlockSize)
	}

	// A count beyond the pixel total degenerates to single pixels.
	msg, err = SplitImageByCount(testPGM(2, 2), 100)
	if err != nil {
		t.Fatal(err)
	}
	if msg.BlockSize != 1 || msg.N() != 4 {
		t.Fatalf("n = %d side = %d, want 4 and 1", msg.N(), msg.BlockSize)
	}
}

func TestParsePGMErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"bad magic", []byte("P5\n2 2\n255\n0 0 0 0\n")},
		{"missing dims", []byte("P2\n")},
		{"short body", []byte("P2\n2 2\n255\n0 0 0\n")},
		{"long body", []byte("P2\n2 2\n255\n0 0 0 0 0\n")},
		{"bad pixel", []byte("P2\n2 2\n255\n0 0 0 x\n")},
		{"pixel range", []byte("P2\n2 2\n255\n0 0 0 300\n")},
	}
	for _, c := range cases {
		if _, err := SplitImageBySize(c.data, 1); !errors.Is(err, ErrBadImage) {
			t.Errorf("%s: err = %v, want ErrBadImage", c.name, err)
		}
	}
}
