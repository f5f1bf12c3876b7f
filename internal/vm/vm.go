// Package vm implements the stack-based bytecode interpreter: it fetches,
// decodes, and executes the instruction stream a Chunk holds, maintaining a
// fixed-size value stack, the global variable table, and the runtime
// string-interning state.
package vm

import (
	"fmt"
	"io"

	"niplang/internal/chunk"
	"niplang/internal/intern"
	"niplang/internal/table"
	"niplang/internal/value"
)

// DefaultStackSize is the value stack's capacity under New
// (NewWithStackSize takes a capacity of its own); matches the 256-slot fixed array a native implementation would
// use.
const DefaultStackSize = 256

// Result reports how a Run call ended. Compile errors never reach the VM,
// so only the OK and runtime-error outcomes exist here.
type Result int

const (
	// ResultOK means the chunk ran to its OP_RETURN with no error.
	ResultOK Result = iota
	// ResultRuntimeError means execution stopped on a runtime fault
	// (type mismatch, undefined variable, stack misuse).
	ResultRuntimeError
)

// VM is the bytecode interpreter's whole mutable runtime state: the value
// stack, current chunk and instruction pointer, the global variable table,
// and the shared string interner. One VM is created per interpreter
// session and reused across multiple Interpret calls (as a REPL does).
type VM struct {
	chunk *chunk.Chunk
	ip    int

	stack    []value.Value
	stackTop int

	globals  table.Table
	interner *intern.Interner

	out    io.Writer
	errOut io.Writer

	fault bool

	// Trace, when set, makes Run print the current instruction and stack
	// contents before executing each one. Developer tooling only.
	Trace bool
}

// New returns a VM with the default stack capacity, writing program output
// to out and runtime diagnostics to errOut, sharing interner with whatever
// compiled the chunks it will run.
func New(interner *intern.Interner, out, errOut io.Writer) *VM {
	return NewWithStackSize(interner, out, errOut, DefaultStackSize)
}

// NewWithStackSize is New with an overridable stack capacity, for
// developer tooling that wants to experiment past the default 256 slots.
// The stack is still fixed at this size for the VM's lifetime — Run never
// grows it, it reports "Stack overflow" instead, exactly as the default
// capacity does.
func NewWithStackSize(interner *intern.Interner, out, errOut io.Writer, stackSize int) *VM {
	return &VM{interner: interner, out: out, errOut: errOut, stack: make([]value.Value, stackSize)}
}

// Free releases the VM's heap objects. Call once, when the VM itself is
// being discarded — not between Interpret calls, since interned strings and
// globals must outlive any single chunk.
func (vm *VM) Free() {
	vm.interner.Objects().Free()
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
}

func (vm *VM) push(v value.Value) {
	if vm.stackTop >= len(vm.stack) {
		vm.runtimeError("Stack overflow.")
		return
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Run executes c from its first instruction. The VM's value stack is reset
// first, but globals and the interner persist across calls.
func (vm *VM) Run(c *chunk.Chunk) Result {
	vm.chunk = c
	vm.ip = 0
	vm.fault = false
	vm.resetStack()
	return vm.run()
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readShort() int {
	offset := int(vm.chunk.Code[vm.ip])<<8 | int(vm.chunk.Code[vm.ip+1])
	vm.ip += 2
	return offset
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) readString() *value.StringObject {
	return vm.readConstant().AsString()
}

func (vm *VM) run() Result {
	for {
		if vm.Trace {
			vm.traceInstruction()
		}

		instruction := chunk.Opcode(vm.readByte())
		switch instruction {
		case chunk.OpConstant:
			vm.push(vm.readConstant())

		case chunk.OpNil:
			vm.push(value.Nil)

		case chunk.OpTrue:
			vm.push(value.Bool(true))

		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := vm.readByte()
			vm.push(vm.stack[slot])

		case chunk.OpSetLocal:
			slot := vm.readByte()
			vm.stack[slot] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case chunk.OpDefineGlobal:
			name := vm.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case chunk.OpSetGlobal:
			name := vm.readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OpGreater:
			if res := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a > b) }); res != ResultOK {
				return res
			}

		case chunk.OpLess:
			if res := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a < b) }); res != ResultOK {
				return res
			}

		case chunk.OpAdd:
			if res := vm.add(); res != ResultOK {
				return res
			}

		case chunk.OpSubtract:
			if res := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a - b) }); res != ResultOK {
				return res
			}

		case chunk.OpMultiply:
			if res := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a * b) }); res != ResultOK {
				return res
			}

		case chunk.OpDivide:
			if res := vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a / b) }); res != ResultOK {
				return res
			}

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))

		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OpPrint:
			fmt.Fprintln(vm.out, value.Print(vm.pop()))

		case chunk.OpJump:
			offset := vm.readShort()
			vm.ip += offset

		case chunk.OpJumpIfFalse:
			offset := vm.readShort()
			if vm.peek(0).IsFalsey() {
				vm.ip += offset
			}

		case chunk.OpLoop:
			offset := vm.readShort()
			vm.ip -= offset

		case chunk.OpReturn:
			return ResultOK

		default:
			return vm.runtimeError("Unknown opcode %d.", instruction)
		}

		if vm.fault {
			return ResultRuntimeError
		}
	}
}

// binaryNumberOp implements OP_GREATER/OP_LESS/OP_SUBTRACT/OP_MULTIPLY/
// OP_DIVIDE uniformly. Both operands are popped fresh on every call — unlike
// a C switch sharing locals across cases, there is no way for one opcode's
// operands to leak into another's, which is exactly the class of bug this
// shared helper rules out structurally.
func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) Result {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return ResultRuntimeError
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return ResultOK
}

// add implements "+", which is overloaded over both numbers and strings.
// String concatenation interns its result through the shared Interner so
// the runtime-built string joins the same canonical set compile-time
// literals live in.
func (vm *VM) add() Result {
	switch {
	case vm.peek(0).IsString() && vm.peek(1).IsString():
		b := vm.pop().AsString()
		a := vm.pop().AsString()
		obj := vm.interner.String(a.Chars + b.Chars)
		vm.push(value.FromObj(obj))
	case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
	default:
		vm.runtimeError("Operands must be two numbers or two strings.")
		return ResultRuntimeError
	}
	return ResultOK
}

func (vm *VM) traceInstruction() {
	fmt.Fprint(vm.errOut, "          ")
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(vm.errOut, "[ %s ]", value.Print(vm.stack[i]))
	}
	fmt.Fprintln(vm.errOut)
	line, _ := vm.chunk.DisassembleInstruction(vm.ip)
	fmt.Fprintln(vm.errOut, line)
}
