package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"niplang/internal/interp"
	"niplang/internal/niconfig"
)

type replCmd struct {
	trace      bool
	configPath string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive REPL session" }
func (*replCmd) Usage() string {
	return `repl [-trace] [-config <path>]:
  Start an interactive session. Each line is compiled and run immediately,
  sharing globals and interned strings with every line before it.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.trace, "trace", false, "print each instruction and the stack before executing it")
	f.StringVar(&cmd.configPath, "config", "niplang.toml", "path to an optional TOML config file")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := niconfig.Load(cmd.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to load config: %v\n", err)
		return subcommands.ExitFailure
	}

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("\nWelcome to niplang!")

	ip := interp.NewWithLimits(os.Stdout, os.Stderr, cfg.Limits.MaxLocals, cfg.Limits.MaxConstants, cfg.Limits.StackSize)
	defer ip.Close()
	ip.Trace(cmd.trace || cfg.Trace.Enabled)

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if buffer.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		if buffer.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		if braceBalance(buffer.String()) > 0 {
			continue
		}

		ip.Interpret(buffer.String())
		buffer.Reset()
	}
}

// braceBalance counts unmatched '{' characters so the REPL can wait for a
// closing brace before compiling a multi-line block instead of reporting a
// premature "Expect '}' after block." on an incomplete statement.
func braceBalance(source string) int {
	balance := 0
	for _, r := range source {
		switch r {
		case '{':
			balance++
		case '}':
			balance--
		}
	}
	return balance
}
