package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"niplang/internal/interp"
	"niplang/internal/niconfig"
)

type runCmd struct {
	trace      bool
	configPath string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a source file" }
func (*runCmd) Usage() string {
	return `run [-trace] [-config <path>] <file>:
  Compile and execute a .np source file.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.trace, "trace", false, "print each instruction and the stack before executing it")
	f.StringVar(&cmd.configPath, "config", "niplang.toml", "path to an optional TOML config file")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	cfg, err := niconfig.Load(cmd.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to load config: %v\n", err)
		return subcommands.ExitFailure
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	ip := interp.NewWithLimits(os.Stdout, os.Stderr, cfg.Limits.MaxLocals, cfg.Limits.MaxConstants, cfg.Limits.StackSize)
	defer ip.Close()
	ip.Trace(cmd.trace || cfg.Trace.Enabled)

	switch ip.Interpret(string(data)) {
	case interp.ResultOK:
		return subcommands.ExitSuccess
	default:
		return subcommands.ExitFailure
	}
}
