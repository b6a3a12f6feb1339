// text.go splits text input on newline boundaries. A line is a byte run
// terminated by 0x0A (terminator included); trailing bytes without a
// final newline form a last, unterminated line. Concatenating the blocks
// in order reproduces the input bytes exactly.
package blocks

import (
	"bytes"
	"math"
)

// SplitTextBySize blocks the text into runs of size complete lines each;
// a shorter tail of lines becomes the final block as-is.
func SplitTextBySize(data []byte, size int) (*Message, error) {
	if size < 1 {
		return nil, ErrBadBlockSize
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	lines := splitLines(data)
	var blocks [][]byte
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		var block []byte
		for _, line := range lines[start:end] {
			block = append(block, line...)
		}
		blocks = append(blocks, block)
	}

	return &Message{
		Type:      Text,
		Raw:       data,
		Blocks:    blocks,
		BlockSize: size,
	}, nil
}

// SplitTextByCount blocks the text into approximately count blocks by
// deriving a block size of round(lines/count) and splitting by size.
func SplitTextByCount(data []byte, count int) (*Message, error) {
	if count < 1 {
		return nil, ErrBadBlockCount
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	lines := len(splitLines(data))
	size := int(math.Round(float64(lines) / float64(count)))
	if size < 1 {
		size = 1
	}
	return SplitTextBySize(data, size)
}

// splitLines cuts data after every 0x0A, keeping the terminator.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}
	return lines
}
