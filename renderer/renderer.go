// Package renderer turns settlement reports into markdown. It holds no
// business logic: amounts arrive exact and are rounded here, at the display
// boundary, and ratios that the engine marked absent render as a blank cell.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/capgains"
)

// Options controls the optional sections of the capital gains report.
type Options struct {
	// ShowLots adds a per-trade breakdown of the FIFO lots consumed.
	ShowLots bool
}

// ReportMarkdown renders a settlement report to a markdown string.
//
// The local columns (revenue, profit valued in the tax residency currency)
// are omitted when every trade already settles in that currency: they would
// only repeat the trade columns.
func ReportMarkdown(report *capgains.Report, localCurrency string, opts Options) string {
	var b strings.Builder

	simulated := isSimulated(report)
	if simulated {
		fmt.Fprint(&b, "# Sell Simulation\n\n")
	} else {
		fmt.Fprint(&b, "# Capital Gains Report\n\n")
	}

	local := needsLocalColumns(report, localCurrency)
	writeTradesTable(&b, report, local)

	if report.Commissions != nil && !report.Commissions.IsZero() {
		fmt.Fprintf(&b, "\nEstimated commissions: %s\n", report.Commissions)
	}

	if opts.ShowLots {
		writeLotDetails(&b, report)
	}
	return b.String()
}

func writeTradesTable(w io.Writer, report *capgains.Report, local bool) {
	if local {
		fmt.Fprintln(w, "| Security | Date | Quantity | Buy price | Sell price | Commission | Revenue | Local revenue | Profit | Local profit | Tax to pay | Return | Tax | After tax |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	} else {
		fmt.Fprintln(w, "| Security | Date | Quantity | Buy price | Sell price | Commission | Revenue | Profit | Tax to pay | Return | Tax | After tax |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	}

	for _, t := range report.Trades {
		cells := []string{
			t.Security,
			t.Date.String(),
			t.Quantity.String(),
			t.BuyPrice().String(),
			t.Price.Round().String(),
			t.Commission.Round().SignedString(),
			t.Revenue.Round().String(),
		}
		if local {
			cells = append(cells, t.LocalRevenue.Round().String())
		}
		cells = append(cells, t.Profit.Round().SignedString())
		if local {
			cells = append(cells, t.LocalProfit.Round().SignedString())
		}
		cells = append(cells,
			t.TaxDue.Round().String(),
			ratioCell(t.ReturnRatio()),
			ratioCell(t.EffectiveTaxRatio()),
			ratioCell(t.AfterTaxReturnRatio()),
		)
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}

	totals := report.Totals
	cells := []string{
		"**Total**", "", "", "", "",
		bold(totals.Commission.String()),
		bold(totals.Revenue.String()),
	}
	if local {
		cells = append(cells, bold(totals.LocalRevenue.Round().String()))
	}
	cells = append(cells, bold(signedAccount(totals.Profit)))
	if local {
		cells = append(cells, bold(totals.LocalProfit.Round().SignedString()))
	}
	cells = append(cells, bold(totals.TaxDue.Round().String()), "", "", "")
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

func writeLotDetails(w io.Writer, report *capgains.Report) {
	fmt.Fprint(w, "\n## Lots Consumed (FIFO)\n\n")
	for _, t := range report.Trades {
		fmt.Fprintf(w, "### %s on %s\n\n", t.Security, t.Date)
		fmt.Fprintln(w, "| Quantity | Acquired | Buy price | Cost |")
		fmt.Fprintln(w, "|---:|:---|---:|---:|")
		for _, f := range t.Fragments {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				f.Quantity, f.Date, f.Price.Round(), f.Cost().Round())
		}
		fmt.Fprintf(w, "| **%s** | | | **%s** |\n\n", t.Quantity, t.CostBasis.Round())
	}
}

// needsLocalColumns reports whether any trade settles outside the tax
// residency currency.
func needsLocalColumns(report *capgains.Report, localCurrency string) bool {
	for _, t := range report.Trades {
		if t.Revenue.Currency() != localCurrency {
			return true
		}
	}
	return false
}

func isSimulated(report *capgains.Report) bool {
	for _, t := range report.Trades {
		if !t.Simulated {
			return false
		}
	}
	return len(report.Trades) > 0
}

// ratioCell renders an absent ratio as a blank cell, never as a zero.
func ratioCell(p capgains.Percent, ok bool) string {
	if !ok {
		return ""
	}
	return p.SignedString()
}

func bold(s string) string {
	if s == "" || s == "-" {
		return s
	}
	return "**" + s + "**"
}

// signedAccount renders a multi-currency balance with explicit signs.
func signedAccount(a *capgains.CashAccount) string {
	var parts []string
	for m := range a.Balances() {
		parts = append(parts, m.Round().SignedString())
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
