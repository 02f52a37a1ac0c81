package selectors

import (
	"encoding/binary"
	"reflect"
	"sort"
	"testing"

	"github.com/bitrocks/whatsabi/abi"
)

const erc20ABI = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer","anonymous":false,
   "inputs":[{"name":"from","type":"address","indexed":true},
             {"name":"to","type":"address","indexed":true},
             {"name":"value","type":"uint256","indexed":false}]}
]`

// dispatchBytecode assembles a compiler-shaped selector jump table for
// the given 0x-prefixed selectors, each resolving to its own JUMPDEST.
func dispatchBytecode(t *testing.T, selectorHexes []string) []byte {
	t.Helper()
	// Each cell: DUP1 PUSH4 <sel> EQ PUSH2 <dest> JUMPI = 11 bytes,
	// closed by JUMPDEST CALLDATASIZE, then one JUMPDEST STOP per
	// destination.
	tableLen := 11*len(selectorHexes) + 2
	var code []byte
	for i, selHex := range selectorHexes {
		sel, err := abi.Arrayify(selHex)
		if err != nil || len(sel) != 4 {
			t.Fatalf("bad selector fixture %q: %v", selHex, err)
		}
		dest := make([]byte, 2)
		binary.BigEndian.PutUint16(dest, uint16(tableLen+2*i))
		code = append(code, 0x80)       // DUP1
		code = append(code, 0x63)       // PUSH4
		code = append(code, sel...)     //   selector
		code = append(code, 0x14)       // EQ
		code = append(code, 0x61)       // PUSH2
		code = append(code, dest...)    //   destination
		code = append(code, 0x57)       // JUMPI
	}
	code = append(code, 0x5b, 0x36) // JUMPDEST CALLDATASIZE: end of table
	for range selectorHexes {
		code = append(code, 0x5b, 0x00) // JUMPDEST STOP
	}
	return code
}

func TestFromBytecodeMatchesFromABI(t *testing.T) {
	// Round trip: selectors computed from the ABI drive a synthetic
	// compiler-shaped dispatch; extraction recovers exactly that set.
	fromABI, err := FromABI(erc20ABI)
	if err != nil {
		t.Fatalf("FromABI: %v", err)
	}
	if len(fromABI) != 3 {
		t.Fatalf("FromABI: got %d methods, want 3", len(fromABI))
	}
	var want []string
	for sel := range fromABI {
		want = append(want, sel)
	}
	sort.Strings(want)

	got, err := FromBytecode(abi.Hexlify(dispatchBytecode(t, want)))
	if err != nil {
		t.Fatalf("FromBytecode: %v", err)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selectors: got %v, want %v", got, want)
	}
}

func TestFromABIKnownSelectors(t *testing.T) {
	fromABI, err := FromABI(erc20ABI)
	if err != nil {
		t.Fatalf("FromABI: %v", err)
	}
	want := map[string]string{
		"0xa9059cbb": "transfer(address,uint256)",
		"0x70a08231": "balanceOf(address)",
		"0x095ea7b3": "approve(address,uint256)",
	}
	if !reflect.DeepEqual(fromABI, want) {
		t.Fatalf("FromABI: got %v, want %v", fromABI, want)
	}
}

func TestFromABITupleCollapsing(t *testing.T) {
	abiJSON := `[
	  {"type":"function","name":"fulfillOrder","stateMutability":"payable",
	   "inputs":[{"name":"order","type":"tuple","components":[
	     {"name":"offerer","type":"address"},
	     {"name":"amount","type":"uint256"}]}],
	   "outputs":[{"name":"","type":"bool"}]}
	]`
	fromABI, err := FromABI(abiJSON)
	if err != nil {
		t.Fatalf("FromABI: %v", err)
	}
	wantSig := "fulfillOrder((address,uint256))"
	sel := FromSignature(wantSig)
	if got, ok := fromABI[sel]; !ok || got != wantSig {
		t.Fatalf("FromABI tuple: got %v, want %s -> %s", fromABI, sel, wantSig)
	}
}

func TestFromABIMalformed(t *testing.T) {
	if _, err := FromABI("not json"); err == nil {
		t.Fatalf("FromABI on junk: expected error")
	}
}

func TestFromSignature(t *testing.T) {
	if got := FromSignature("transfer(address,uint256)"); got != "0xa9059cbb" {
		t.Fatalf("FromSignature: got %s, want 0xa9059cbb", got)
	}
	if got := FromSignature("balanceOf(address)"); got != "0x70a08231" {
		t.Fatalf("FromSignature: got %s, want 0x70a08231", got)
	}
}

func TestEventTopic(t *testing.T) {
	want := "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	if got := EventTopic("Transfer(address,address,uint256)"); got != want {
		t.Fatalf("EventTopic: got %s, want %s", got, want)
	}
}

func TestFromBytecodeDeduplicates(t *testing.T) {
	// The same selector recovered twice appears once, first position
	// preserved.
	code := dispatchBytecode(t, []string{"0xa9059cbb", "0x70a08231", "0xa9059cbb"})
	got, err := FromBytecode(code)
	if err != nil {
		t.Fatalf("FromBytecode: %v", err)
	}
	if want := []string{"0xa9059cbb", "0x70a08231"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("selectors: got %v, want %v", got, want)
	}
}

func TestEventsFromBytecode(t *testing.T) {
	topic := "721c20121297512b72821b97f5326877ea8ecf4bb9948fea5bfcb6453074d37f"
	// PUSH32 <topic> LOG3 LOG1: both logs share one topic, projected
	// to a single unique entry.
	got, err := EventsFromBytecode("7f" + topic + "a3a1")
	if err != nil {
		t.Fatalf("EventsFromBytecode: %v", err)
	}
	if want := []string{"0x" + topic}; !reflect.DeepEqual(got, want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
}

func TestProjectionsEmptyInput(t *testing.T) {
	for _, in := range []string{"", "0x"} {
		sels, err := FromBytecode(in)
		if err != nil || len(sels) != 0 {
			t.Fatalf("FromBytecode(%q): got %v, %v", in, sels, err)
		}
		events, err := EventsFromBytecode(in)
		if err != nil || len(events) != 0 {
			t.Fatalf("EventsFromBytecode(%q): got %v, %v", in, events, err)
		}
	}
}
