// Package interp wires the compiler and VM together into one callable
// Interpret entry point, owning the long-lived state (interned strings,
// global variables) that must persist across successive calls the way a
// REPL's successive lines need.
package interp

import (
	"io"

	"niplang/internal/chunk"
	"niplang/internal/compiler"
	"niplang/internal/intern"
	"niplang/internal/vm"
)

// Result reports how a call to Interpret ended. The three variants map
// directly to the command-line driver's exit-code contract.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// Interpreter owns one VM and its shared string interner across repeated
// Interpret calls.
type Interpreter struct {
	vm           *vm.VM
	interner     *intern.Interner
	errOut       io.Writer
	maxLocals    int
	maxConstants int
}

// New returns an Interpreter that writes program output to out and
// compile/runtime diagnostics to errOut, using the default 256-slot
// capacities throughout.
func New(out, errOut io.Writer) *Interpreter {
	return NewWithLimits(out, errOut, compiler.DefaultMaxLocals, chunk.MaxConstants, vm.DefaultStackSize)
}

// NewWithLimits is New with overridable local-variable, constant-pool, and
// stack capacities, for developer tooling that wants to experiment with
// them. The local and constant caps are clamped to 256 by the compiler; the
// stack capacity is not clamped.
func NewWithLimits(out, errOut io.Writer, maxLocals, maxConstants, stackSize int) *Interpreter {
	in := intern.New()
	return &Interpreter{
		vm:           vm.NewWithStackSize(in, out, errOut, stackSize),
		interner:     in,
		errOut:       errOut,
		maxLocals:    maxLocals,
		maxConstants: maxConstants,
	}
}

// Trace toggles the VM's per-instruction disassembly trace.
func (ip *Interpreter) Trace(enabled bool) {
	ip.vm.Trace = enabled
}

// Interpret compiles source and, if compilation succeeds, runs it. Each call
// compiles a fresh Chunk but reuses the Interpreter's globals and interned
// strings, so a variable defined in one call is visible to the next — the
// behavior a line-at-a-time REPL depends on.
func (ip *Interpreter) Interpret(source string) Result {
	c, ok := compiler.CompileWithLimits(source, ip.interner, ip.errOut, ip.maxLocals, ip.maxConstants)
	if !ok {
		return ResultCompileError
	}

	switch ip.vm.Run(c) {
	case vm.ResultOK:
		return ResultOK
	default:
		return ResultRuntimeError
	}
}

// Close frees the interpreter's heap objects. Call once, when the
// Interpreter itself is being discarded.
func (ip *Interpreter) Close() {
	ip.vm.Free()
}
