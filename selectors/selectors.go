// Package selectors flattens the recovered ABI skeleton into the two
// identifier views callers usually want — 4-byte function selectors and
// 32-byte event topics — and computes selectors from a published ABI
// for cross-checking against extraction.
package selectors

import (
	"fmt"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/bitrocks/whatsabi/abi"
	"github.com/bitrocks/whatsabi/crypto"
	"github.com/bitrocks/whatsabi/disasm"
)

// FromBytecode extracts the ordered, de-duplicated list of 0x-prefixed
// function selectors from deployed bytecode.
func FromBytecode(bytecode any) ([]string, error) {
	entries, err := disasm.FromBytecode(bytecode)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Type != abi.TypeFunction || seen[e.Selector] {
			continue
		}
		seen[e.Selector] = true
		out = append(out, e.Selector)
	}
	return out, nil
}

// EventsFromBytecode extracts the ordered, de-duplicated list of
// 0x-prefixed event topic hashes from deployed bytecode.
func EventsFromBytecode(bytecode any) ([]string, error) {
	entries, err := disasm.FromBytecode(bytecode)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Type != abi.TypeEvent || seen[e.Hash] {
			continue
		}
		seen[e.Hash] = true
		out = append(out, e.Hash)
	}
	return out, nil
}

// FromABI maps each function of an ABI JSON document to its canonical
// signature, keyed by 0x-prefixed selector hex. Tuple arguments are
// collapsed to their parenthesised component types in the canonical
// form, so the selectors agree with what compilers dispatch on.
func FromABI(abiJSON string) (map[string]string, error) {
	parsed, err := gethabi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("selectors: parsing abi: %w", err)
	}
	out := make(map[string]string, len(parsed.Methods))
	for _, method := range parsed.Methods {
		out[FromSignature(method.Sig)] = method.Sig
	}
	return out, nil
}

// FromSignature computes the 0x-prefixed 4-byte selector of a canonical
// function signature like "transfer(address,uint256)".
func FromSignature(signature string) string {
	return abi.Hexlify(crypto.Keccak256([]byte(signature))[:4])
}

// EventTopic computes the 0x-prefixed 32-byte topic hash of a canonical
// event signature like "Transfer(address,address,uint256)".
func EventTopic(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}
