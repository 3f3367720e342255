package capgains

import "github.com/shopspring/decimal"

// TaxRule computes the tax due on a realized profit expressed in the tax
// residency currency. It must be pure and total over all inputs, negatives
// included; the settlement engine clamps a negative due to zero (a loss owes
// nothing) and leaves loss carry-forward to jurisdiction-level policy.
//
// The engine values cost basis at acquisition-date rates and realized gains
// at settlement-date rates. A jurisdiction that taxes on a different
// valuation can be composed by supplying a different Converter to the
// engine; the rule itself only ever sees the final local profit.
type TaxRule interface {
	TaxDue(localProfit Money) Money
}

// FlatTax taxes profit above an optional allowance at a single rate, the
// shape of most flat capital-gains regimes.
type FlatTax struct {
	Currency  string          // tax residency currency
	Rate      decimal.Decimal // e.g. 0.30 for 30%
	Allowance decimal.Decimal // profit below this is not taxed
}

// TaxDue implements TaxRule. It is total: a loss yields a negative due,
// which the engine clamps.
func (t FlatTax) TaxDue(localProfit Money) Money {
	taxable := localProfit.value.Sub(t.Allowance)
	return M(taxable.Mul(t.Rate), t.Currency)
}
