// Package mtss implements the modification-tolerant signature scheme: a
// conventional signature over a message is augmented with per-group
// digests indexed by a cover-free family, so verification can locate up
// to d modified blocks instead of only rejecting the message.
package mtss

import (
	"fmt"

	"github.com/mico666/mtss/blocks"
	"github.com/mico666/mtss/cff"
	"github.com/mico666/mtss/crypto"
	"github.com/mico666/mtss/log"
)

// logger returns the package's child logger, following the process
// default so CLI verbosity settings take effect.
func logger() *log.Logger {
	return log.Default().Module("mtss")
}

// Options selects the primitive stack and family parameters for signing.
type Options struct {
	CDSS       string         // underlying signature scheme identifier
	Hash       string         // hash identifier
	Method     cff.Method     // cover-free family construction
	MatrixType cff.MatrixType // matrix representation
	D          int            // defectives the signature can locate
}

// DecoderMode selects how verification locates modified blocks.
type DecoderMode int

const (
	// General runs the complement decoder on the test matrix.
	General DecoderMode = iota
	// Specific runs the construction's own decoder.
	Specific
)

// ParseDecoderMode parses the CLI spelling of a decoder mode.
func ParseDecoderMode(s string) (DecoderMode, error) {
	switch s {
	case "general":
		return General, nil
	case "specific":
		return Specific, nil
	default:
		return 0, fmt.Errorf("mtss: unknown decoder mode %q", s)
	}
}

// Outcome is the terminal verification result.
type Outcome int

const (
	// Invalid: the underlying signature rejected the payload.
	Invalid Outcome = iota
	// Unchanged: the message is authentic and byte-identical.
	Unchanged
	// Modified: the message is authentic but some blocks were altered.
	Modified
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the verification verdict. Located holds 1-based block
// indices; Complete is false when the decoder could only produce
// candidates (more than d blocks changed, or no consistent decoding).
type Result struct {
	Outcome  Outcome
	Located  []int
	Complete bool
}

// Sign blocks, hashes, and signs the message, producing the signature
// payload. The cover-free family is built from (Method, D, n) and its
// parameters are recorded in the payload so verification can rebuild it.
func Sign(msg *blocks.Message, opts Options, sk []byte) (*Signature, error) {
	signer, err := crypto.NewSigner(opts.CDSS)
	if err != nil {
		return nil, err
	}
	if _, err := crypto.DigestSize(opts.Hash); err != nil {
		return nil, err
	}

	family, err := cff.Build(opts.Method, opts.D, msg.N(), opts.MatrixType)
	if err != nil {
		return nil, err
	}
	logger().Debug("family built",
		"method", family.Method.String(), "d", family.D, "n", family.N, "t", family.T)

	tuple, err := hashTuple(family, msg, opts.Hash)
	if err != nil {
		return nil, err
	}
	hstar, err := crypto.Sum(opts.Hash, msg.Raw)
	if err != nil {
		return nil, err
	}

	sig := &Signature{
		CDSS:       opts.CDSS,
		Hash:       opts.Hash,
		FileType:   msg.Type.String(),
		CFFMethod:  opts.Method.String(),
		MatrixType: opts.MatrixType.String(),
		BlockSize:  msg.BlockSize,
		N:          msg.N(),
		D:          family.D,
		T:          family.T,
		Tuple:      tuple,
		HStar:      fmt.Sprintf("%X", hstar),
	}

	raw, err := signer.Sign([]byte(sig.CanonicalString()), sk)
	if err != nil {
		return nil, err
	}
	sig.Sig = raw
	logger().Debug("message signed", "cdss", opts.CDSS, "blocks", msg.N(), "rows", family.T)
	return sig, nil
}

// Verify checks the payload against a received message. The flow is:
// underlying signature first (reject on failure), then the whole-message
// digest (accept unchanged on match), then the per-row digests feed the
// chosen decoder to locate the modified blocks.
func Verify(msg *blocks.Message, sig *Signature, mode DecoderMode, pk []byte) (*Result, error) {
	signer, err := crypto.NewSigner(sig.CDSS)
	if err != nil {
		return nil, err
	}
	if _, err := crypto.DigestSize(sig.Hash); err != nil {
		return nil, err
	}

	if !signer.Verify([]byte(sig.CanonicalString()), sig.Sig, pk) {
		logger().Debug("underlying signature rejected", "cdss", sig.CDSS)
		return &Result{Outcome: Invalid}, nil
	}

	hstar, err := crypto.Sum(sig.Hash, msg.Raw)
	if err != nil {
		return nil, err
	}
	if fmt.Sprintf("%X", hstar) == sig.HStar {
		return &Result{Outcome: Unchanged, Complete: true}, nil
	}

	method, err := cff.ParseMethod(sig.CFFMethod)
	if err != nil {
		return nil, err
	}
	mt, err := cff.ParseMatrixType(sig.MatrixType)
	if err != nil {
		return nil, err
	}
	if msg.N() != sig.N {
		return nil, fmt.Errorf("mtss: message has %d blocks, signature covers %d", msg.N(), sig.N)
	}
	family, err := cff.Build(method, sig.D, sig.N, mt)
	if err != nil {
		return nil, err
	}
	if family.T != sig.T {
		return nil, fmt.Errorf("mtss: rebuilt family has %d rows, signature carries %d", family.T, sig.T)
	}
	if len(sig.Tuple) != sig.T {
		return nil, fmt.Errorf("%w: %d tuple digests for %d rows", ErrBadPayload, len(sig.Tuple), sig.T)
	}

	tuple, err := hashTuple(family, msg, sig.Hash)
	if err != nil {
		return nil, err
	}
	y := make([]uint8, family.T)
	positives := 0
	for i := range tuple {
		if tuple[i] != sig.Tuple[i] {
			y[i] = 1
			positives++
		}
	}
	logger().Debug("tuple compared", "rows", family.T, "positive", positives)

	located, complete, err := family.FindDefectives(y, mode == Specific)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: Modified, Located: located, Complete: complete}, nil
}

// hashTuple computes the per-row digests: row i hashes the concatenation
// of the blocks selected by the matrix row, in column order.
func hashTuple(family *cff.Family, msg *blocks.Message, hashName string) ([]string, error) {
	m := family.Matrix()
	tuple := make([]string, family.T)
	for i := 0; i < family.T; i++ {
		h, err := crypto.NewHash(hashName)
		if err != nil {
			return nil, err
		}
		for _, j := range m.GetRow(i) {
			h.Write(msg.Blocks[j])
		}
		tuple[i] = fmt.Sprintf("%X", h.Sum(nil))
	}
	return tuple, nil
}
