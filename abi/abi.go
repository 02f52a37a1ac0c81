// Package abi defines the partial ABI entries recovered from contract
// bytecode, along with the byte and hex primitives the disassembler is
// built on.
package abi

import "fmt"

// EntryType tags an Entry as a function or an event.
type EntryType string

const (
	TypeFunction EntryType = "function"
	TypeEvent    EntryType = "event"
)

// Entry is one recovered ABI item. Extraction fills only the skeleton
// fields (Selector/Payable for functions, Hash for events) and leaves
// Sig and SigAlts empty; nothing in this module fills them in.
type Entry struct {
	Type EntryType `json:"type"`

	// Selector is the 0x-prefixed 4-byte selector hex. Functions only.
	Selector string `json:"selector,omitempty"`
	// Payable is false when the jump destination carries a
	// CALLVALUE/DUP1/ISZERO guard. Functions only.
	Payable bool `json:"payable,omitempty"`

	// Hash is the 0x-prefixed 32-byte event topic hex. Events only.
	Hash string `json:"hash,omitempty"`

	// Sig is the best-known canonical textual signature, if any.
	Sig string `json:"sig,omitempty"`
	// SigAlts holds further candidate signatures beyond Sig.
	SigAlts []string `json:"sigAlts,omitempty"`
}

// String renders the entry for diagnostics.
func (e Entry) String() string {
	switch e.Type {
	case TypeFunction:
		return fmt.Sprintf("function %s payable=%v", e.Selector, e.Payable)
	case TypeEvent:
		return fmt.Sprintf("event %s", e.Hash)
	default:
		return fmt.Sprintf("unknown entry %q", string(e.Type))
	}
}
