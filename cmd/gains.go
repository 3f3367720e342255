package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// taxFlags are the jurisdiction flags shared by the report commands.
type taxFlags struct {
	currency  string
	rate      float64
	allowance float64
}

func (t *taxFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.currency, "c", "EUR", "Tax residency currency (ISO 4217 code)")
	f.Float64Var(&t.rate, "rate", 0.30, "Flat capital gains tax rate (0.30 for 30%)")
	f.Float64Var(&t.allowance, "allowance", 0, "Tax-free allowance on the local profit")
}

// settlement builds the engine from the flags, over an empty lot book.
func (t *taxFlags) settlement() (*capgains.Settlement, error) {
	rates, err := DecodeRates()
	if err != nil {
		return nil, err
	}
	tax := capgains.FlatTax{
		Currency:  t.currency,
		Rate:      decimal.NewFromFloat(t.rate),
		Allowance: decimal.NewFromFloat(t.allowance),
	}
	return capgains.NewSettlement(capgains.NewLotBook(), capgains.NewCachedConverter(rates), tax, t.currency)
}

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	taxFlags
	lots bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized capital gains report from the trade history" }
func (*gainsCmd) Usage() string {
	return `cgt gains [-c <currency>] [-rate <rate>] [-allowance <amount>] [-lots]

  Replays the trade history, matches each sale against the acquisition lots
  first-in first-out, and reports the realized gains and the tax due.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	c.taxFlags.SetFlags(f)
	f.BoolVar(&c.lots, "lots", false, "Show the FIFO lots consumed by each sale")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, err := DecodeHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	s, err := c.settlement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := s.Replay(history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.ReportMarkdown(report, s.LocalCurrency, renderer.Options{ShowLots: c.lots})
	printMarkdown(md)

	return subcommands.ExitSuccess
}
