package vm

import "fmt"

// runtimeError reports a runtime fault in the wire format
// "<message>\n[line L] in script", resets the stack, and always returns
// ResultRuntimeError so call sites can write `return vm.runtimeError(...)`.
func (vm *VM) runtimeError(format string, args ...any) Result {
	if vm.fault {
		return ResultRuntimeError
	}
	vm.fault = true

	fmt.Fprintf(vm.errOut, format, args...)
	fmt.Fprintln(vm.errOut)

	line := vm.chunk.Lines[vm.ip-1]
	fmt.Fprintf(vm.errOut, "[line %d] in script\n", line)

	vm.resetStack()
	return ResultRuntimeError
}
