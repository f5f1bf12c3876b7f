// Package chunk implements the bytecode container the compiler emits into
// and the VM executes: a parallel code/line array plus an 8-bit-indexed
// constant pool.
package chunk

import (
	"fmt"

	"niplang/internal/value"
)

// Opcode is a single bytecode instruction tag.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpDefineGlobal
	OpSetGlobal
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpReturn
)

var opcodeNames = map[Opcode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpReturn:       "OP_RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// MaxConstants is the hard per-chunk limit on the constant pool, imposed by
// the 8-bit operand OP_CONSTANT and the *_GLOBAL opcodes address it with.
// A chunk may be configured with a smaller cap (see NewWithMaxConstants)
// but never a larger one, since the 8-bit operand can't address past 256
// anyway.
const MaxConstants = 256

// Chunk is a single compiled unit: the instruction stream, one source line
// per instruction byte, and the constant pool those instructions index
// into. Constants are append-only during compilation.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value

	maxConstants int
}

// New returns an empty Chunk with the default constant-pool cap.
func New() *Chunk {
	return NewWithMaxConstants(MaxConstants)
}

// NewWithMaxConstants is New with an overridable constant-pool cap, for
// developer tooling that wants to provoke "Too many constants in one
// chunk" at a smaller size than the default.
func NewWithMaxConstants(maxConstants int) *Chunk {
	if maxConstants > MaxConstants {
		maxConstants = MaxConstants
	}
	return &Chunk{maxConstants: maxConstants}
}

// Write appends a single raw byte, tagging it with the source line it came
// from. Every opcode and every operand byte goes through this.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends value to the constant pool and returns its index.
// Returns an error once the pool would exceed the chunk's cap (MaxConstants,
// or the smaller cap given to NewWithMaxConstants) — the compiler
// turns this into the "Too many constants in one chunk" compile error.
func (c *Chunk) AddConstant(v value.Value) (int, error) {
	if len(c.Constants) >= c.maxConstants {
		return 0, fmt.Errorf("Too many constants in one chunk")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}

// Len reports the number of instruction bytes emitted so far; used by the
// compiler to compute jump targets.
func (c *Chunk) Len() int { return len(c.Code) }
