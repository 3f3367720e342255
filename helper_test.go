package capgains

import "github.com/shopspring/decimal"

// terse constructors for test values.

func eur(v float64) Money { return M(v, "EUR") }
func usd(v float64) Money { return M(v, "USD") }
func nok(v float64) Money { return M(v, "NOK") }

func day(s string) Date { return MustParse(s) }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// flat30 is a plain 30% tax regime in EUR, no allowance.
var flat30 = FlatTax{Currency: "EUR", Rate: dec(0.30)}

// usdBook builds a lot book with the canonical two-lot AAPL position used
// across the settlement tests: 10 shares at $100 then 10 shares at $120.
func usdBook() *LotBook {
	book := NewLotBook()
	book.Add(Lot{Security: "AAPL", Date: day("2024-01-01"), Quantity: Q(10), Price: usd(100)})
	book.Add(Lot{Security: "AAPL", Date: day("2024-01-05"), Quantity: Q(10), Price: usd(120)})
	return book
}
