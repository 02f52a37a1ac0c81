package disasm

import (
	"errors"
	"fmt"
)

// ErrBufferUnderrun reports a relative lookbehind beyond the cursor's
// configured window. It indicates a programming error in the caller,
// not malformed bytecode.
var ErrBufferUnderrun = errors.New("disasm: lookbehind exceeds position buffer")

// posRing remembers the byte offsets of the K most recently yielded
// instructions with constant-time relative access.
type posRing struct {
	slots []int
	count int // total offsets recorded since construction
}

func newPosRing(size int) *posRing {
	return &posRing{slots: make([]int, size)}
}

func (r *posRing) push(pos int) {
	r.slots[r.count%len(r.slots)] = pos
	r.count++
}

// size is the number of live entries, at most len(slots).
func (r *posRing) size() int {
	if r.count < len(r.slots) {
		return r.count
	}
	return len(r.slots)
}

// at resolves a negative step offset: -1 is the most recent entry, -2
// the one before it, and so on.
func (r *posRing) at(rel int) (int, bool) {
	if rel >= 0 || -rel > r.size() {
		return 0, false
	}
	return r.slots[(r.count+rel)%len(r.slots)], true
}

// Cursor iterates forward over EVM bytecode one instruction at a time,
// advancing by the correct width for PUSH immediates. It keeps a small
// ring of recent instruction offsets so callers can match patterns over
// the last few yielded instructions by relative step, and supports
// peeking at absolute byte offsets.
//
// The cursor borrows the bytecode; callers must not mutate it while
// iterating.
type Cursor struct {
	bytecode []byte
	nextPos  int
	nextStep int
	ring     *posRing
}

// NewCursor creates a cursor over bytecode remembering the offsets of
// the bufferSize most recent instructions. bufferSize values below 1
// are raised to 1.
func NewCursor(bytecode []byte, bufferSize int) *Cursor {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Cursor{
		bytecode: bytecode,
		ring:     newPosRing(bufferSize),
	}
}

// HasMore reports whether another instruction remains.
func (c *Cursor) HasMore() bool {
	return c.nextPos < len(c.bytecode)
}

// Next yields the next opcode and advances past its immediate operand,
// if any. Past the end of the bytecode it returns STOP without
// advancing, mirroring EVM semantics for execution off the end of code.
func (c *Cursor) Next() OpCode {
	if !c.HasMore() {
		return STOP
	}
	op := OpCode(c.bytecode[c.nextPos])
	c.ring.push(c.nextPos)
	c.nextStep++
	// A truncated trailing immediate still advances nextPos past the
	// end; the next HasMore is then false.
	c.nextPos += 1 + PushWidth(op)
	return op
}

// Step is the index of the last yielded instruction, -1 before the
// first Next.
func (c *Cursor) Step() int {
	return c.nextStep - 1
}

// Pos is the byte offset of the last yielded instruction, -1 before the
// first Next.
func (c *Cursor) Pos() int {
	pos, ok := c.ring.at(-1)
	if !ok {
		return -1
	}
	return pos
}

// resolve maps p to a byte offset: non-negative p is an absolute
// offset, negative p a relative step (-1 = current instruction).
func (c *Cursor) resolve(p int) (int, error) {
	if p >= 0 {
		return p, nil
	}
	pos, ok := c.ring.at(p)
	if !ok {
		return 0, fmt.Errorf("%w: step %d, window %d", ErrBufferUnderrun, p, c.ring.size())
	}
	return pos, nil
}

// At returns the opcode at an absolute byte offset (p >= 0) or at a
// buffered relative step (p < 0, -1 being the current instruction).
// Absolute offsets past the end of the bytecode read as STOP; relative
// steps outside the buffered window fail with ErrBufferUnderrun.
func (c *Cursor) At(p int) (OpCode, error) {
	pos, err := c.resolve(p)
	if err != nil {
		return STOP, err
	}
	if pos >= len(c.bytecode) {
		return STOP, nil
	}
	return OpCode(c.bytecode[pos]), nil
}

// Value returns the immediate operand of the current instruction: the N
// bytes following a PUSHN, or nil for anything else. Nil before the
// first Next.
func (c *Cursor) Value() []byte {
	if c.ring.size() == 0 {
		return nil
	}
	v, _ := c.ValueAt(-1)
	return v
}

// ValueAt returns the immediate operand of the instruction at p, with p
// interpreted as in At. An immediate truncated by the end of the
// bytecode yields the available bytes, which may be shorter than the
// PUSH width.
func (c *Cursor) ValueAt(p int) ([]byte, error) {
	pos, err := c.resolve(p)
	if err != nil {
		return nil, err
	}
	if pos >= len(c.bytecode) {
		return nil, nil
	}
	width := PushWidth(OpCode(c.bytecode[pos]))
	if width == 0 {
		return nil, nil
	}
	end := pos + 1 + width
	if end > len(c.bytecode) {
		end = len(c.bytecode)
	}
	return c.bytecode[pos+1 : end], nil
}
