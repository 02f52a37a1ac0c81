package disasm

import (
	"github.com/bitrocks/whatsabi/abi"
)

// extractorBufferSize is the deepest lookbehind the dispatch-cell
// pattern needs (PUSH EQ PUSH JUMPI).
const extractorBufferSize = 4

// FromBytecode walks deployed bytecode once and returns the ABI
// skeleton it can recover: function selectors (with payability) from
// the selector jump table, and event topic hashes from PUSH32/LOG
// pairs.
//
// The matcher is heuristic. It targets the code shapes mainstream
// compilers emit and silently ignores anything it does not recognise;
// the only error condition is malformed hex input. Event entries come
// first, in emission order, followed by function entries in the order
// their selectors were first seen — extraction is deterministic.
func FromBytecode(bytecode any) ([]abi.Entry, error) {
	raw, err := abi.Arrayify(bytecode)
	if err != nil {
		return nil, err
	}

	var (
		jumps      = make(map[string]uint64) // selector hex -> jump destination offset
		jumpOrder  []string                  // selectors in first-seen order
		dests      = make(map[uint64]int)    // JUMPDEST offset -> step
		notPayable = make(map[uint64]int)    // guarded JUMPDEST offset -> step
		lastPush32 []byte                    // most recent PUSH32 immediate
		inJumpTable = true
		events     []abi.Entry
	)

	recordJump := func(selector string, offset uint64) {
		if _, seen := jumps[selector]; !seen {
			jumpOrder = append(jumpOrder, selector)
		}
		jumps[selector] = offset
	}

	code := NewCursor(raw, extractorBufferSize)
	for code.HasMore() {
		inst := code.Next()
		pos := code.Pos()
		step := code.Step()

		// Track the last PUSH32 so a following LOG can be attributed a
		// topic hash. The value is deliberately not cleared after a
		// LOG: consecutive LOGs with no PUSH32 in between each emit
		// the same topic, matching observed emission patterns.
		if inst == PUSH32 {
			lastPush32 = code.Value()
			continue
		}
		if IsLog(inst) && len(lastPush32) > 0 {
			events = append(events, abi.Entry{
				Type: abi.TypeEvent,
				Hash: abi.Hexlify(lastPush32),
			})
			continue
		}

		if inst == JUMPDEST {
			// Index jump destinations so selector jumps can be
			// resolved against them during finalisation.
			dests[uint64(pos)] = step

			// A JUMPDEST CALLVALUE DUP1 ISZERO prefix is the guard
			// compilers emit for functions that must reject ether.
			// Direct positive indexing is valid: none of these
			// opcodes carries an immediate.
			if opAt(code, pos+1) == CALLVALUE &&
				opAt(code, pos+2) == DUP1 &&
				opAt(code, pos+3) == ISZERO {
				notPayable[uint64(pos)] = step
			}

			// The first JUMPDEST CALLDATASIZE marks the end of the
			// selector jump table. Sticky.
			if inJumpTable && opAt(code, pos+1) == CALLDATASIZE {
				inJumpTable = false
			}
			continue
		}

		if !inJumpTable {
			continue
		}

		// A dispatch cell compares the calldata selector against a
		// pushed literal and jumps on equality:
		//
		//	DUP1 PUSH4 <selector> EQ PUSHN <dest> JUMPI
		//	80   63    ^          14 60-7f ^      57
		//
		// DUP1 is not checked; within the jump table the remaining
		// four instructions identify the cell. Lookbehind misses
		// early in the stream are ordinary non-matches.
		if inst == JUMPI &&
			IsPush(opBehind(code, -2)) &&
			opBehind(code, -3) == EQ &&
			IsPush(opBehind(code, -4)) {
			value, err := code.ValueAt(-4)
			if err != nil {
				continue
			}
			if len(value) < 4 {
				// Selectors with leading zero bytes get pushed with a
				// narrower PUSH; widen back to 4 bytes.
				if value, err = abi.ZeroPad(value, 4); err != nil {
					continue
				}
			}
			dest, err := code.ValueAt(-2)
			if err != nil {
				continue
			}
			recordJump(abi.Hexlify(value), abi.BytesToInt(dest))
			continue
		}

		// The implicit fallback cell jumps when the selector
		// comparison chain bottoms out: ISZERO PUSHN <dest> JUMPI.
		if inst == JUMPI &&
			IsPush(opBehind(code, -2)) &&
			opBehind(code, -3) == ISZERO {
			dest, err := code.ValueAt(-2)
			if err != nil {
				continue
			}
			recordJump("0x00000000", abi.BytesToInt(dest))
			continue
		}
	}

	// Selector jumps whose destination was never observed as a
	// JUMPDEST are dropped: they were pattern noise, not dispatch.
	entries := events
	for _, selector := range jumpOrder {
		offset := jumps[selector]
		if _, ok := dests[offset]; !ok {
			continue
		}
		_, guarded := notPayable[offset]
		entries = append(entries, abi.Entry{
			Type:     abi.TypeFunction,
			Selector: selector,
			Payable:  !guarded,
		})
	}
	return entries, nil
}

// opAt reads the opcode at an absolute offset; offsets past the end of
// the bytecode read as STOP.
func opAt(c *Cursor, pos int) OpCode {
	op, _ := c.At(pos)
	return op
}

// opBehind reads a buffered relative step; an underrun reads as STOP,
// which matches no pattern.
func opBehind(c *Cursor, rel int) OpCode {
	op, err := c.At(rel)
	if err != nil {
		return STOP
	}
	return op
}
