package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bitrocks/whatsabi/loaders"
	"github.com/bitrocks/whatsabi/log"
	"github.com/bitrocks/whatsabi/selectors"
)

// lookupConcurrency bounds the signature requests in flight at once so
// a large contract does not trip catalog rate limits.
const lookupConcurrency = 8

type guessConfig struct {
	URL        string
	Address    string
	SigLookups string
	Timeout    time.Duration
	Verbosity  int
}

func newGuessFlagSet(cfg *guessConfig) *flag.FlagSet {
	fs := flag.NewFlagSet("guess-abi", flag.ContinueOnError)
	fs.StringVar(&cfg.URL, "url", "http://127.0.0.1:8545",
		"Ethereum JSON-RPC endpoint, e.g. Alchemy or Infura")
	fs.StringVar(&cfg.Address, "address", "0x7a250d5630b4cf539739df2c5dacb4c659f2488d",
		"contract address")
	fs.StringVar(&cfg.SigLookups, "siglookups", "samczsun",
		"comma-separated signature catalogs: samczsun, 4byte")
	fs.DurationVar(&cfg.Timeout, "timeout", 60*time.Second,
		"overall deadline for RPC and lookups")
	fs.IntVar(&cfg.Verbosity, "verbosity", 3, "log level 0-4")
	return fs
}

// signatureLookups builds the configured backends. Unknown names are
// rejected rather than ignored.
func signatureLookups(list string) ([]loaders.SignatureLookup, error) {
	var out []loaders.SignatureLookup
	for _, name := range strings.Split(list, ",") {
		switch strings.TrimSpace(name) {
		case "samczsun":
			out = append(out, loaders.NewSamczsunLookup())
		case "4byte":
			out = append(out, loaders.NewFourByteLookup())
		case "":
		default:
			return nil, fmt.Errorf("unknown signature lookup %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no signature lookups configured")
	}
	return out, nil
}

func runGuessABI(args []string) int {
	var cfg guessConfig
	fs := newGuessFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	applyVerbosity(cfg.Verbosity)
	logger := log.Default().Module("cli")

	lookups, err := signatureLookups(cfg.SigLookups)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 2
	}
	multi := loaders.NewMultiLookup(lookups...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	codeLoader, err := loaders.DialCode(ctx, cfg.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 1
	}
	defer codeLoader.Close()

	code, err := codeLoader.LoadCode(ctx, cfg.Address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 1
	}
	if len(code) == 0 {
		fmt.Fprintf(os.Stderr, "whatsabi: address %s has no code\n", cfg.Address)
		return 1
	}
	logger.Debug("fetched code", "address", cfg.Address, "bytes", len(code))

	sels, err := selectors.FromBytecode(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 1
	}
	logger.Info("extracted selectors", "count", len(sels))

	// Fan out one lookup per selector with bounded concurrency. A
	// failed lookup is reported beside its selector and never aborts
	// the others.
	sigs := make([][]string, len(sels))
	lookupErrs := make([]error, len(sels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, sel := range sels {
		g.Go(func() error {
			sigs[i], lookupErrs[i] = multi.LoadFunctions(gctx, sel)
			return nil
		})
	}
	g.Wait()

	for i, sel := range sels {
		if lookupErrs[i] != nil {
			fmt.Printf("selector: %s, lookup failed: %v\n", sel, lookupErrs[i])
			continue
		}
		fmt.Printf("selector: %s, candidate_signatures: %s\n", sel, formatSignatures(sigs[i]))
	}
	return 0
}

func formatSignatures(sigs []string) string {
	if len(sigs) == 0 {
		return "[]"
	}
	sorted := make([]string, len(sigs))
	copy(sorted, sigs)
	sort.Strings(sorted)
	return "[" + strings.Join(sorted, ", ") + "]"
}
