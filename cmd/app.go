// Package cmd implements the CLI application to compute capital gains.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&gainsCmd{}, "reports")
	c.Register(&simulateCmd{}, "reports")

	c.Register(&fmtCmd{}, "statements")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tradesFile = flag.String("trades-file", "trades.jsonl", "Path to the trade history file (JSONL format)")
var ratesFile = flag.String("rates-file", "rates.jsonl", "Path to the exchange rates file (JSONL format)")

// DecodeHistory loads the trade history from the app trades file.
func DecodeHistory() (*capgains.TradeHistory, error) {
	f, err := os.Open(*tradesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open trades file %q: %w", *tradesFile, err)
	}
	defer f.Close()
	return capgains.DecodeTrades(f)
}

// DecodeRates loads the exchange rates from the app rates file. A missing
// file yields an empty table, enough for a single-currency account.
func DecodeRates() (*capgains.RateTable, error) {
	f, err := os.Open(*ratesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, rates file does not exist, using an empty rate table instead")
		return capgains.NewRateTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open rates file %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return capgains.DecodeRates(f)
}

// printMarkdown renders markdown for the terminal. On any rendering error it
// falls back to the raw markdown, which is still readable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
