// signature.go defines the MTSS signature payload and its text codec. A
// payload is eleven lines: five algorithm identifiers, four numeric
// parameters, the space-joined hash tuple with the whole-message hash,
// and the underlying signature in hex. The canonical byte string signed
// by the underlying scheme is the first ten lines' fields joined with
// single spaces, so any alteration of metadata or hashes invalidates the
// signature.
package mtss

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// payloadLines is the exact number of non-empty lines in a serialised
// signature.
const payloadLines = 11

// Errors returned by the payload codec.
var (
	ErrBadPayload = errors.New("mtss: malformed signature payload")
	ErrBadHex     = errors.New("mtss: malformed hex field")
)

// Signature is the MTSS signature payload.
type Signature struct {
	CDSS       string // underlying signature scheme identifier
	Hash       string // hash identifier
	FileType   string // block decomposition tag
	CFFMethod  string // cover-free family construction
	MatrixType string // matrix representation

	BlockSize int // effective block size of the decomposition
	N         int // number of blocks / matrix columns
	D         int // locatable defectives
	T         int // matrix rows

	Tuple []string // uppercase hex digests, one per matrix row
	HStar string   // uppercase hex digest of the whole message
	Sig   []byte   // underlying signature over the canonical string
}

// CanonicalString is the byte sequence handed to the underlying scheme:
// metadata, parameters in decimal ASCII, then the hash tuple and the
// whole-message hash, all joined with single spaces.
func (s *Signature) CanonicalString() string {
	fields := []string{
		s.CDSS,
		s.Hash,
		s.FileType,
		s.CFFMethod,
		s.MatrixType,
		strconv.Itoa(s.BlockSize),
		strconv.Itoa(s.N),
		strconv.Itoa(s.D),
		strconv.Itoa(s.T),
		s.tupleLine(),
	}
	return strings.Join(fields, " ")
}

// tupleLine is line 10 of the payload: the per-row digests followed by
// the whole-message digest.
func (s *Signature) tupleLine() string {
	return strings.Join(append(append([]string{}, s.Tuple...), s.HStar), " ")
}

// Marshal serialises the payload to its eleven-line text form.
func (s *Signature) Marshal() []byte {
	lines := []string{
		s.CDSS,
		s.Hash,
		s.FileType,
		s.CFFMethod,
		s.MatrixType,
		strconv.Itoa(s.BlockSize),
		strconv.Itoa(s.N),
		strconv.Itoa(s.D),
		strconv.Itoa(s.T),
		s.tupleLine(),
		fmt.Sprintf("%X", s.Sig),
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Unmarshal parses the eleven-line text form. Exactly eleven non-empty
// lines are accepted; anything else is a malformed payload.
func Unmarshal(data []byte) (*Signature, error) {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != payloadLines {
		return nil, fmt.Errorf("%w: %d non-empty lines, want %d", ErrBadPayload, len(lines), payloadLines)
	}

	blockSize, err1 := strconv.Atoi(lines[5])
	n, err2 := strconv.Atoi(lines[6])
	d, err3 := strconv.Atoi(lines[7])
	t, err4 := strconv.Atoi(lines[8])
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}

	hexes := strings.Fields(lines[9])
	if len(hexes) != t+1 {
		return nil, fmt.Errorf("%w: %d tuple digests, want %d", ErrBadPayload, len(hexes), t+1)
	}
	for _, h := range hexes {
		if err := checkUpperHex(h); err != nil {
			return nil, err
		}
	}

	sig, err := hexDecode(lines[10])
	if err != nil {
		return nil, err
	}

	return &Signature{
		CDSS:       lines[0],
		Hash:       lines[1],
		FileType:   lines[2],
		CFFMethod:  lines[3],
		MatrixType: lines[4],
		BlockSize:  blockSize,
		N:          n,
		D:          d,
		T:          t,
		Tuple:      hexes[:t],
		HStar:      hexes[t],
		Sig:        sig,
	}, nil
}

// checkUpperHex validates the canonical digest form: even-length
// uppercase hex.
func checkUpperHex(s string) error {
	if len(s) == 0 || len(s)%2 != 0 {
		return fmt.Errorf("%w: %q has odd length", ErrBadHex, s)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return fmt.Errorf("%w: %q", ErrBadHex, s)
		}
	}
	return nil
}

// hexDecode decodes a canonical uppercase hex string.
func hexDecode(s string) ([]byte, error) {
	if err := checkUpperHex(s); err != nil {
		return nil, err
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHex, err)
	}
	return out, nil
}
