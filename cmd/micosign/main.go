// Command micosign signs files with a modification-tolerant signature: a
// fresh key pair is generated, every input file is blocked, hashed
// through a cover-free family, and signed with the chosen underlying
// scheme. Each input file gains a <file>.mts signature; the key pair is
// written as <prefix>_pub.pem and <prefix>_priv.pem.
//
// Usage:
//
//	micosign -a ecdsa -h sha2256 -d 1 -c sperner -f text -g 4 -b msg.txt
//
// Flags:
//
//	-a  underlying signature scheme (default ecdsa)
//	-h  hash (default sha2256)
//	-d  number of locatable modified blocks (default 1)
//	-c  cover-free family construction (default sperner)
//	-f  input file type: text or image (default text)
//	-g  comma-separated block sizes, one per file (exclusive with -t)
//	-t  comma-separated block counts, one per file (exclusive with -g)
//	-b  comma-separated input files
//	-z  matrix representation: list or compact (default list)
//	-s  key file prefix (default mtss)
//	-v  log verbosity 0-4 (default 2)
package main

import (
	"fmt"
	"os"

	"github.com/mico666/mtss/blocks"
	"github.com/mico666/mtss/cff"
	"github.com/mico666/mtss/crypto"
	"github.com/mico666/mtss/log"
	"github.com/mico666/mtss/mtss"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}
	log.SetDefault(log.New(log.VerbosityToLevel(cfg.Verbosity)))
	logger := log.Default().Module("micosign")

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 2
	}
	method, err := cff.ParseMethod(cfg.Method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 2
	}
	matrixType, err := cff.ParseMatrixType(cfg.MatrixType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 2
	}
	fileType, err := blocks.ParseFileType(cfg.FileType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 2
	}

	signer, err := crypto.NewSigner(cfg.CDSS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 2
	}
	sk, pk, err := signer.KeyGen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "micosign: key generation: %v\n", err)
		return 1
	}
	pubPath := cfg.KeyPrefix + "_pub.pem"
	privPath := cfg.KeyPrefix + "_priv.pem"
	if err := os.WriteFile(pubPath, crypto.EncodePublicKeyPEM(pk), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 1
	}
	if err := os.WriteFile(privPath, crypto.EncodePrivateKeyPEM(sk), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
		return 1
	}
	logger.Info("key pair written", "public", pubPath, "private", privPath)

	opts := mtss.Options{
		CDSS:       cfg.CDSS,
		Hash:       cfg.Hash,
		Method:     method,
		MatrixType: matrixType,
		D:          cfg.D,
	}
	for i, path := range cfg.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
			return 1
		}
		var msg *blocks.Message
		if len(cfg.Sizes) > 0 {
			msg, err = blocks.SplitBySize(data, fileType, cfg.Sizes[i])
		} else {
			msg, err = blocks.SplitByCount(data, fileType, cfg.Counts[i])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "micosign: %s: %v\n", path, err)
			return 1
		}

		sig, err := mtss.Sign(msg, opts, sk)
		if err != nil {
			fmt.Fprintf(os.Stderr, "micosign: %s: %v\n", path, err)
			return 1
		}
		sigPath := path + ".mts"
		if err := os.WriteFile(sigPath, sig.Marshal(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "micosign: %v\n", err)
			return 1
		}
		logger.Info("file signed", "file", path, "signature", sigPath,
			"blocks", msg.N(), "rows", sig.T)
	}
	return 0
}
