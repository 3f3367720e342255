package capgains

import "fmt"

// Sale is a single disposal of a security, real or simulated. Simulated
// sales exist only to produce a TradeResult; they are never written back to
// the lot book or the history.
type Sale struct {
	Security   string
	Quantity   Quantity
	Price      Money // unit price obtained
	Commission Money
	Date       Date // settlement date
	Simulated  bool
}

// TradeResult is the outcome of settling one Sale. It is immutable once
// produced; amounts stay exact and are only rounded by the reporting layer.
type TradeResult struct {
	Security   string
	Quantity   Quantity
	Price      Money
	Commission Money
	Date       Date
	Simulated  bool

	Fragments    []Fragment // consumed lots, earliest acquisition first
	CostBasis    Money      // in the sale currency, valued at acquisition dates
	Revenue      Money      // in the sale currency
	Profit       Money      // in the sale currency
	LocalRevenue Money      // in the tax currency, valued at the settlement date
	LocalProfit  Money      // in the tax currency, valued at the settlement date
	TaxDue       Money      // in the tax currency, never negative

	returnRatio   Percent
	hasReturn     bool
	taxRatio      Percent
	hasTax        bool
	afterTaxRatio Percent
	hasAfterTax   bool
}

// ReturnRatio returns profit over cost basis. It is absent when the cost
// basis is zero (e.g. free shares): a return on nothing is not meaningful.
func (r *TradeResult) ReturnRatio() (Percent, bool) { return r.returnRatio, r.hasReturn }

// EffectiveTaxRatio returns tax due over local profit. It is absent when the
// local profit is zero or negative: an effective rate on no gain is not
// meaningful.
func (r *TradeResult) EffectiveTaxRatio() (Percent, bool) { return r.taxRatio, r.hasTax }

// AfterTaxReturnRatio returns local profit net of tax over local revenue,
// absent exactly when the local revenue is zero.
func (r *TradeResult) AfterTaxReturnRatio() (Percent, bool) { return r.afterTaxRatio, r.hasAfterTax }

// BuyPrice is the average acquisition price of the consumed lots, in the
// sale currency, rounded for display.
func (r *TradeResult) BuyPrice() Money { return r.CostBasis.Div(r.Quantity).Round() }

// Settlement computes capital-gains figures for sales matched FIFO against a
// lot book. It is single-threaded by design: each sale must observe the book
// state its predecessors left, so sales go through Process one at a time in
// chronological order.
type Settlement struct {
	Book          *LotBook
	Converter     Converter
	Tax           TaxRule
	LocalCurrency string // tax residency currency
}

// NewSettlement creates an engine over a lot book.
func NewSettlement(book *LotBook, conv Converter, tax TaxRule, localCurrency string) (*Settlement, error) {
	if err := ValidateCurrency(localCurrency); err != nil {
		return nil, fmt.Errorf("invalid tax residency currency: %w", err)
	}
	return &Settlement{
		Book:          book,
		Converter:     conv,
		Tax:           tax,
		LocalCurrency: internCurrency(localCurrency),
	}, nil
}

// Process consumes the sale's quantity from the lot book and derives the
// trade's tax-relevant figures:
//
//   - cost basis: each consumed fragment valued in the sale currency at its
//     own acquisition date, converted fragment by fragment so date-dependent
//     rate differences stay visible, then summed;
//   - revenue: unit price times quantity minus commission;
//   - local revenue and profit: converted at the settlement date, because a
//     realized gain is valued when realized;
//   - tax due: the jurisdiction rule on the local profit, clamped at zero.
func (s *Settlement) Process(sale Sale) (*TradeResult, error) {
	fragments, err := s.Book.Consume(sale.Security, sale.Quantity)
	if err != nil {
		return nil, err
	}

	costBasis := M(0, sale.Price.Currency())
	for _, f := range fragments {
		converted, err := s.Converter.Convert(f.Cost(), f.Date, sale.Price.Currency())
		if err != nil {
			return nil, fmt.Errorf("cost basis of %q lot from %s: %w", sale.Security, f.Date, err)
		}
		costBasis = costBasis.Add(converted)
	}

	commission := sale.Commission
	if commission.Currency() != "" && commission.Currency() != sale.Price.Currency() {
		commission, err = s.Converter.Convert(commission, sale.Date, sale.Price.Currency())
		if err != nil {
			return nil, fmt.Errorf("commission of %q sale on %s: %w", sale.Security, sale.Date, err)
		}
	}

	revenue := sale.Price.Mul(sale.Quantity).Sub(commission)
	profit := revenue.Sub(costBasis)

	localRevenue, err := s.Converter.Convert(revenue, sale.Date, s.LocalCurrency)
	if err != nil {
		return nil, fmt.Errorf("local revenue of %q sale on %s: %w", sale.Security, sale.Date, err)
	}
	localProfit, err := s.Converter.Convert(profit, sale.Date, s.LocalCurrency)
	if err != nil {
		return nil, fmt.Errorf("local profit of %q sale on %s: %w", sale.Security, sale.Date, err)
	}

	taxDue := s.Tax.TaxDue(localProfit)
	if taxDue.IsNegative() {
		// A loss owes nothing; carrying it forward is jurisdiction policy,
		// not settlement arithmetic.
		taxDue = M(0, s.LocalCurrency)
	}

	r := &TradeResult{
		Security:     sale.Security,
		Quantity:     sale.Quantity,
		Price:        sale.Price,
		Commission:   sale.Commission,
		Date:         sale.Date,
		Simulated:    sale.Simulated,
		Fragments:    fragments,
		CostBasis:    costBasis,
		Revenue:      revenue,
		Profit:       profit,
		LocalRevenue: localRevenue,
		LocalProfit:  localProfit,
		TaxDue:       taxDue,
	}
	if !costBasis.IsZero() {
		r.returnRatio, r.hasReturn = percentOf(profit.value, costBasis.value), true
	}
	if localProfit.IsPositive() {
		r.taxRatio, r.hasTax = percentOf(taxDue.value, localProfit.value), true
	}
	if !localRevenue.IsZero() {
		r.afterTaxRatio, r.hasAfterTax = percentOf(localProfit.Sub(taxDue).value, localRevenue.value), true
	}
	return r, nil
}

// Totals aggregates a batch of trade results for the reporting layer.
// Multi-currency figures accumulate per currency; local figures accumulate
// in the tax currency. TaxDue is recomputed on the aggregated local profit,
// not summed per trade, because jurisdiction rules are not additive.
type Totals struct {
	Commission   *CashAccount
	Revenue      *CashAccount
	Profit       *CashAccount
	LocalRevenue Money
	LocalProfit  Money
	TaxDue       Money
}

func (s *Settlement) newTotals() *Totals {
	return &Totals{
		Commission:   NewCashAccount(s.LocalCurrency),
		Revenue:      NewCashAccount(s.LocalCurrency),
		Profit:       NewCashAccount(s.LocalCurrency),
		LocalRevenue: M(0, s.LocalCurrency),
		LocalProfit:  M(0, s.LocalCurrency),
	}
}

// accumulate folds one result into the totals.
func (t *Totals) accumulate(r *TradeResult) {
	t.Commission.Deposit(r.Commission)
	t.Revenue.Deposit(r.Revenue)
	t.Profit.Deposit(r.Profit)
	t.LocalRevenue = t.LocalRevenue.Add(r.LocalRevenue)
	t.LocalProfit = t.LocalProfit.Add(r.LocalProfit)
}

// finalize recomputes the aggregate tax on the total local profit.
func (s *Settlement) finalize(t *Totals) {
	due := s.Tax.TaxDue(t.LocalProfit)
	if due.IsNegative() {
		due = M(0, s.LocalCurrency)
	}
	t.TaxDue = due
}

// Report is the reporting-layer view of a batch of settled sales: one
// TradeResult per sale in input order, plus the aggregate figures. All
// values are plain data; only the renderer applies display rounding.
type Report struct {
	Trades      []*TradeResult
	Commissions *CashAccount // aggregate commissions not attached to a single trade
	Totals      *Totals
}
