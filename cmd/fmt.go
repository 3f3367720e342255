package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the trade history into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cgt fmt [-o <file>]

  Validates and formats the trade history file. This command reads all
  trades, validates them, sorts them by date, and writes them back in a
  canonical JSONL format. By default it rewrites the trades file in-place.

Usage Examples:
# Rewrites the default trades file.
$ cgt fmt

# Print the canonical form without touching the file.
$ cgt fmt -o -
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Write to this file instead of rewriting in-place. Use - for stdout.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, err := DecodeHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load trades: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.outputFile == "-" {
		if err := capgains.EncodeTrades(os.Stdout, history); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	target := p.outputFile
	if target == "" {
		target = *tradesFile
	}
	out, err := os.Create(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", target, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := capgains.EncodeTrades(out, history); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing trades to %q: %v\n", target, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %q.\n", target)
	return subcommands.ExitSuccess
}
