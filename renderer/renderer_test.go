package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/capgains"
	"github.com/shopspring/decimal"
)

func report(t *testing.T, localCurrency string, trades ...capgains.Trade) *capgains.Report {
	t.Helper()

	tax := capgains.FlatTax{Currency: localCurrency, Rate: decimal.NewFromFloat(0.30)}
	table := capgains.NewRateTable()
	table.Add("USD", "EUR", capgains.MustParse("2024-01-01"), decimal.NewFromFloat(0.9))

	s, err := capgains.NewSettlement(capgains.NewLotBook(), capgains.NewCachedConverter(table), tax, localCurrency)
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.Replay(capgains.NewTradeHistory(trades...))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func usd(v float64) capgains.Money { return capgains.M(v, "USD") }

func d(s string) capgains.Date { return capgains.MustParse(s) }

func TestReportMarkdownSingleCurrency(t *testing.T) {
	r := report(t, "USD",
		capgains.NewBuy(d("2024-01-01"), "AAPL", capgains.Q(10), usd(100), usd(2)),
		capgains.NewSell(d("2024-01-10"), "AAPL", capgains.Q(10), usd(150), usd(5)),
	)

	md := ReportMarkdown(r, "USD", Options{})

	if !strings.Contains(md, "# Capital Gains Report") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "| AAPL |") {
		t.Error("missing trade row")
	}
	// All trades settle in the tax currency: no redundant local columns.
	if strings.Contains(md, "Local revenue") || strings.Contains(md, "Local profit") {
		t.Errorf("local columns should be hidden:\n%s", md)
	}
	if !strings.Contains(md, "**Total**") {
		t.Error("missing totals row")
	}
	// No lots section unless asked for.
	if strings.Contains(md, "Lots Consumed") {
		t.Error("lots section should be off by default")
	}
}

func TestReportMarkdownLocalColumns(t *testing.T) {
	r := report(t, "EUR",
		capgains.NewBuy(d("2024-01-02"), "AAPL", capgains.Q(10), usd(100), usd(2)),
		capgains.NewSell(d("2024-01-10"), "AAPL", capgains.Q(10), usd(150), usd(5)),
	)

	md := ReportMarkdown(r, "EUR", Options{})
	if !strings.Contains(md, "Local revenue") || !strings.Contains(md, "Local profit") {
		t.Errorf("local columns should show for a USD trade under EUR residency:\n%s", md)
	}
}

func TestReportMarkdownLots(t *testing.T) {
	r := report(t, "USD",
		capgains.NewBuy(d("2024-01-01"), "AAPL", capgains.Q(10), usd(100), capgains.Money{}),
		capgains.NewBuy(d("2024-01-05"), "AAPL", capgains.Q(10), usd(120), capgains.Money{}),
		capgains.NewSell(d("2024-01-10"), "AAPL", capgains.Q(15), usd(150), capgains.Money{}),
	)

	md := ReportMarkdown(r, "USD", Options{ShowLots: true})
	if !strings.Contains(md, "## Lots Consumed (FIFO)") {
		t.Fatalf("missing lots section:\n%s", md)
	}
	if !strings.Contains(md, "2024-01-01") || !strings.Contains(md, "2024-01-05") {
		t.Error("lots rows should name both acquisition dates")
	}
}

func TestReportMarkdownAbsentRatios(t *testing.T) {
	// A losing sale has no effective tax ratio; its cell stays blank instead
	// of showing a fake zero.
	r := report(t, "USD",
		capgains.NewBuy(d("2024-01-01"), "AAPL", capgains.Q(10), usd(150), capgains.Money{}),
		capgains.NewSell(d("2024-01-10"), "AAPL", capgains.Q(10), usd(100), capgains.Money{}),
	)
	if _, ok := r.Trades[0].EffectiveTaxRatio(); ok {
		t.Fatal("setup: tax ratio should be absent")
	}

	md := ReportMarkdown(r, "USD", Options{})
	for _, line := range strings.Split(md, "\n") {
		if strings.Contains(line, "| AAPL |") && !strings.Contains(line, "|  |") {
			t.Errorf("absent ratio should render as an empty cell: %s", line)
		}
	}
}
