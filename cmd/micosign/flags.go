package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// config holds the parsed command line of micosign.
type config struct {
	CDSS       string
	Hash       string
	D          int
	Method     string
	FileType   string
	MatrixType string
	KeyPrefix  string
	Verbosity  int

	Files  []string // input files, from -b
	Sizes  []int    // per-file block sizes, from -g
	Counts []int    // per-file block counts, from -t
}

// parseFlags parses args. The second return is true when the caller
// should exit immediately with the given code (help requested or bad
// usage).
func parseFlags(args []string) (*config, bool, int) {
	fs := flag.NewFlagSet("micosign", flag.ContinueOnError)
	cfg := &config{}

	fs.StringVar(&cfg.CDSS, "a", "ecdsa", "underlying signature scheme (ecdsa, rsa, dilithium, sphincsplus, falcon)")
	fs.StringVar(&cfg.Hash, "h", "sha2256", "hash (sha2256, sha2512, sha3256, sha3512)")
	fs.IntVar(&cfg.D, "d", 1, "number of locatable modified blocks")
	fs.StringVar(&cfg.Method, "c", "sperner", "cover-free family construction (sperner, sts, rs)")
	fs.StringVar(&cfg.FileType, "f", "text", "input file type (text, image)")
	fs.StringVar(&cfg.MatrixType, "z", "list", "matrix representation (list, compact)")
	fs.StringVar(&cfg.KeyPrefix, "s", "mtss", "prefix for the generated key files")
	fs.IntVar(&cfg.Verbosity, "v", 2, "log verbosity 0-4")

	var files, sizes, counts string
	fs.StringVar(&files, "b", "", "comma-separated input files to sign")
	fs.StringVar(&sizes, "g", "", "comma-separated block sizes, one per input file")
	fs.StringVar(&counts, "t", "", "comma-separated block counts, one per input file")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, 0
		}
		return nil, true, 2
	}

	cfg.Files = splitList(files)
	var err error
	if cfg.Sizes, err = parseIntList(sizes); err != nil {
		fmt.Fprintf(fs.Output(), "micosign: bad -g value: %v\n", err)
		return nil, true, 2
	}
	if cfg.Counts, err = parseIntList(counts); err != nil {
		fmt.Fprintf(fs.Output(), "micosign: bad -t value: %v\n", err)
		return nil, true, 2
	}
	return cfg, false, 0
}

// validate checks the argument combinations that flag parsing alone
// cannot express.
func (c *config) validate() error {
	if len(c.Files) == 0 {
		return fmt.Errorf("no input files (-b)")
	}
	if (len(c.Sizes) == 0) == (len(c.Counts) == 0) {
		return fmt.Errorf("exactly one of -g (block sizes) and -t (block counts) is required")
	}
	if len(c.Sizes) > 0 && len(c.Sizes) != len(c.Files) {
		return fmt.Errorf("%d block sizes for %d files", len(c.Sizes), len(c.Files))
	}
	if len(c.Counts) > 0 && len(c.Counts) != len(c.Files) {
		return fmt.Errorf("%d block counts for %d files", len(c.Counts), len(c.Files))
	}
	return nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIntList parses a comma-separated list of positive integers.
func parseIntList(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", part)
		}
		if v < 1 {
			return nil, fmt.Errorf("%d is not positive", v)
		}
		out = append(out, v)
	}
	return out, nil
}
