package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"niplang/internal/compiler"
	"niplang/internal/intern"
)

type disasmCmd struct {
	dumpBytecode bool
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a source file and print its disassembled bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm [-dump] <file>:
  Compile a .np source file and print its instruction listing.
`
}

func (cmd *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpBytecode, "dump", false, "also write the raw bytecode to <file>.nic")
}

func (cmd *disasmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	in := intern.New()
	c, ok := compiler.Compile(string(data), in, os.Stderr)
	if !ok {
		return subcommands.ExitFailure
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fmt.Fprint(os.Stdout, c.Disassemble(name))

	if cmd.dumpBytecode {
		outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".nic"
		if err := os.WriteFile(outPath, c.Code, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Dump bytecode error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
