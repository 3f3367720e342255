package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	taxFlags
	quotesFile  string
	mapFile     string
	lots        bool
	feeCurrency string
	feeFixed    float64
	feeRate     float64
	feeMin      float64
}

func (*simulateCmd) Name() string { return "simulate" }
func (*simulateCmd) Synopsis() string {
	return "simulate selling open positions at current market quotes"
}
func (*simulateCmd) Usage() string {
	return `cgt simulate [-q <quotes.jsonl>] [-m <instruments.json>] [SECURITY[=QUANTITY] ...]

  Simulates selling the given positions at current market quotes, dated
  today, and reports the tax impact. A bare SECURITY sells the whole open
  position; SECURITY=QUANTITY sells that many shares. Without arguments,
  every open position is sold.

  The trade history is never modified by a simulation.

Usage Examples:
# What would selling everything cost in taxes?
$ cgt simulate

# Sell 50 MSFT shares and the whole AAPL position, using saved quotes.
$ cgt simulate -q quotes.jsonl MSFT=50 AAPL
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.taxFlags.SetFlags(f)
	f.StringVar(&c.quotesFile, "q", "", "Static quotes file (JSONL). Overrides live quotes.")
	f.StringVar(&c.mapFile, "m", "instruments.json", "JSON map from security symbol to live quote instrument id")
	f.BoolVar(&c.lots, "lots", false, "Show the FIFO lots consumed by each simulated sale")
	f.StringVar(&c.feeCurrency, "fee-currency", "", "Commission currency. Defaults to the trade currency.")
	f.Float64Var(&c.feeFixed, "fee-fixed", 0, "Fixed commission per simulated order")
	f.Float64Var(&c.feeRate, "fee-rate", 0, "Commission rate on the traded notional (0.001 for 0.1%)")
	f.Float64Var(&c.feeMin, "fee-min", 0, "Minimum commission per simulated order")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	// Replay the history to rebuild the open positions; the historical
	// report itself is not the point here.
	if _, err := s.Replay(history); err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying trades: %v\n", err)
		return subcommands.ExitFailure
	}

	positions, err := parsePositions(f.Args(), s.Book)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(positions) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to simulate: no open position.")
		return subcommands.ExitSuccess
	}

	quotes, err := c.quoteSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fees := capgains.NotionalFeeSchedule{
		Currency: c.feeCurrency,
		Fixed:    decimal.NewFromFloat(c.feeFixed),
		Rate:     decimal.NewFromFloat(c.feeRate),
		Minimum:  decimal.NewFromFloat(c.feeMin),
	}

	report, err := s.SimulateSell(positions, quotes, fees)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.ReportMarkdown(report, s.LocalCurrency, renderer.Options{ShowLots: c.lots})
	printMarkdown(md)

	return subcommands.ExitSuccess
}

// parsePositions turns "SYM" or "SYM=QTY" arguments into positions. Without
// arguments, every open position of the book is selected in full.
func parsePositions(args []string, book *capgains.LotBook) ([]capgains.Position, error) {
	if len(args) == 0 {
		var positions []capgains.Position
		for security := range book.Positions() {
			positions = append(positions, capgains.Position{Security: security})
		}
		return positions, nil
	}

	positions := make([]capgains.Position, 0, len(args))
	for _, arg := range args {
		security, qty, found := strings.Cut(arg, "=")
		p := capgains.Position{Security: security}
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q: want a positive whole number", arg)
			}
			p.Quantity = capgains.Q(n)
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// quoteSource picks static quotes when a quotes file is given, live quotes
// otherwise.
func (c *simulateCmd) quoteSource() (capgains.QuoteSource, error) {
	if c.quotesFile != "" {
		f, err := os.Open(c.quotesFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open quotes file %q: %w", c.quotesFile, err)
		}
		defer f.Close()
		return capgains.DecodeQuotes(f)
	}

	data, err := os.ReadFile(c.mapFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open instrument map %q (use -q for offline quotes): %w", c.mapFile, err)
	}
	var instruments map[string]string
	if err := json.Unmarshal(data, &instruments); err != nil {
		return nil, fmt.Errorf("cannot decode instrument map %q: %w", c.mapFile, err)
	}
	return capgains.NewLiveQuotes(instruments), nil
}
