// Command niplang is the interpreter's primary entry point: it runs exactly
// one source file and maps the outcome to a process exit code, with no
// other flags or subcommands.
package main

import (
	"fmt"
	"os"
	"strings"

	"niplang/internal/interp"
)

const (
	exitUsage        = 64
	exitDataErr      = 74
	exitCompileError = 65
	exitRuntimeError = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: niplang <path>")
		return exitUsage
	}

	path := args[0]
	if !strings.HasSuffix(path, ".np") {
		fmt.Fprintf(os.Stderr, "Error: source file must have a .np extension: %s\n", path)
		return exitDataErr
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read file \"%s\": %v\n", path, err)
		return exitDataErr
	}

	ip := interp.New(os.Stdout, os.Stderr)
	defer ip.Close()

	switch ip.Interpret(string(source)) {
	case interp.ResultOK:
		return 0
	case interp.ResultCompileError:
		return exitCompileError
	case interp.ResultRuntimeError:
		return exitRuntimeError
	default:
		return exitRuntimeError
	}
}
