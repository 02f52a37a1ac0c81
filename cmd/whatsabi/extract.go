package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitrocks/whatsabi/selectors"
)

type extractConfig struct {
	Code      string
	Verbosity int
}

func newExtractFlagSet(name string, cfg *extractConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Code, "code", "", "hex bytecode; reads stdin when empty")
	fs.IntVar(&cfg.Verbosity, "verbosity", 3, "log level 0-4")
	return fs
}

// readCode returns the bytecode hex from the flag or, failing that,
// from stdin with surrounding whitespace stripped.
func readCode(cfg *extractConfig) (string, error) {
	if cfg.Code != "" {
		return cfg.Code, nil
	}
	buf, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(buf)), nil
}

func runSelectors(args []string) int {
	return runExtract("selectors", args, selectors.FromBytecode)
}

func runEvents(args []string) int {
	return runExtract("events", args, selectors.EventsFromBytecode)
}

func runExtract(name string, args []string, extract func(any) ([]string, error)) int {
	var cfg extractConfig
	fs := newExtractFlagSet(name, &cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	applyVerbosity(cfg.Verbosity)

	code, err := readCode(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 1
	}
	ids, err := extract(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whatsabi: %v\n", err)
		return 1
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return 0
}
