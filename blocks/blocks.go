// Package blocks decomposes an input file into the ordered block sequence
// the MTSS protocol hashes in groups. The decomposition is deterministic:
// the same bytes, file type, and block size always produce the same
// blocks, so a verifier can rebuild the signer's view from signature
// metadata alone.
package blocks

import (
	"errors"
	"fmt"
)

// Errors returned by the splitters.
var (
	ErrUnknownFileType = errors.New("blocks: unknown file type")
	ErrBadBlockSize    = errors.New("blocks: block size must be positive")
	ErrBadBlockCount   = errors.New("blocks: block count must be positive")
	ErrEmptyInput      = errors.New("blocks: empty input")
)

// FileType tags the decomposition strategy used for a message.
type FileType int

const (
	// Text splits on newline-terminated lines.
	Text FileType = iota
	// Image splits a plain PGM raster into square tiles.
	Image
)

// String returns the wire name of the file type as carried in signature
// metadata.
func (t FileType) String() string {
	switch t {
	case Text:
		return "text"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("filetype(%d)", int(t))
	}
}

// ParseFileType parses a wire name back into a FileType.
func ParseFileType(s string) (FileType, error) {
	switch s {
	case "text":
		return Text, nil
	case "image":
		return Image, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFileType, s)
	}
}

// Message is a blocked input file: the raw bytes, the ordered blocks, and
// the effective block size (lines per block for text, tile side for
// images). BlockSize is what signature metadata records, so splitting the
// raw bytes again by size reproduces Blocks exactly even when the message
// was originally split by count.
type Message struct {
	Type      FileType
	Raw       []byte
	Blocks    [][]byte
	BlockSize int
}

// N returns the number of blocks.
func (m *Message) N() int {
	return len(m.Blocks)
}

// SplitBySize blocks the input with a fixed block size.
func SplitBySize(data []byte, ft FileType, size int) (*Message, error) {
	switch ft {
	case Text:
		return SplitTextBySize(data, size)
	case Image:
		return SplitImageBySize(data, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFileType, int(ft))
	}
}

// SplitByCount blocks the input targeting a fixed number of blocks.
func SplitByCount(data []byte, ft FileType, count int) (*Message, error) {
	switch ft {
	case Text:
		return SplitTextByCount(data, count)
	case Image:
		return SplitImageByCount(data, count)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFileType, int(ft))
	}
}
