// Command whatsabi recovers an ABI description from a deployed
// contract's bytecode and enriches it with candidate signatures from
// public catalogs.
//
// Usage:
//
//	whatsabi guess-abi --url <rpc> --address <hex> [--siglookups samczsun,4byte]
//	whatsabi selectors [--code <hex>]
//	whatsabi events    [--code <hex>]
//
// guess-abi fetches the contract's code over JSON-RPC, extracts its
// function selectors, and prints each selector with the candidate
// signatures the configured lookups return. selectors and events read
// hex bytecode from --code or stdin and print the recovered
// identifiers, one per line.
package main

import (
	"fmt"
	"os"

	"github.com/bitrocks/whatsabi/log"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0"
var version = "v0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in
// isolation.
func run(args []string) int {
	if len(args) < 1 {
		usage(os.Stderr)
		return 2
	}
	switch args[0] {
	case "guess-abi":
		return runGuessABI(args[1:])
	case "selectors":
		return runSelectors(args[1:])
	case "events":
		return runEvents(args[1:])
	case "version", "--version":
		fmt.Println("whatsabi", version)
		return 0
	case "help", "-h", "--help":
		usage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "whatsabi: unknown command %q\n", args[0])
		usage(os.Stderr)
		return 2
	}
}

func usage(w *os.File) {
	fmt.Fprintln(w, `usage: whatsabi <command> [flags]

commands:
  guess-abi   fetch a contract's code and guess its ABI with signature lookups
  selectors   print function selectors extracted from bytecode
  events      print event topic hashes extracted from bytecode
  version     print version and exit

run "whatsabi <command> -h" for command flags`)
}

// applyVerbosity installs a default logger at the level the --verbosity
// flag asks for.
func applyVerbosity(verbosity int) {
	log.SetDefault(log.New(log.VerbosityToLevel(verbosity)))
}
