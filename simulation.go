package capgains

import "fmt"

// Position names a security to simulate selling. A zero Quantity means the
// full open position.
type Position struct {
	Security string
	Quantity Quantity
}

// SimulateSell fabricates a sale of each requested position at current
// quotes, dated today, and settles it against a copy of the lot book: the
// recorded history is never modified, however the simulation ends.
//
// The whole batch is validated before any quote is fetched: every requested
// security must have an open position, and an unknown one fails the batch up
// front rather than after some positions were already priced. Simulated
// commissions go to the report's aggregate account, not to the individual
// trades, whose Commission stays zero.
func (s *Settlement) SimulateSell(positions []Position, quotes QuoteSource, fees FeeSchedule) (*Report, error) {
	// Fail fast on the whole batch.
	securities := make([]string, 0, len(positions))
	for _, p := range positions {
		if s.Book.OpenQuantity(p.Security).IsZero() {
			return nil, &UnknownPositionError{Security: p.Security}
		}
		if !p.Quantity.IsZero() && (!p.Quantity.IsPositive() || !p.Quantity.IsInteger()) {
			return nil, fmt.Errorf("simulated sale quantity for %q must be a positive whole number, got %s", p.Security, p.Quantity)
		}
		securities = append(securities, p.Security)
	}
	quotes.Batch(securities...)

	// Scope every mutation to this run.
	sim := &Settlement{
		Book:          s.Book.Clone(),
		Converter:     s.Converter,
		Tax:           s.Tax,
		LocalCurrency: s.LocalCurrency,
	}

	calc := NewCommissionCalc(fees)
	today := Today()
	report := &Report{Totals: sim.newTotals()}

	for _, p := range positions {
		quantity := p.Quantity
		if quantity.IsZero() {
			quantity = sim.Book.OpenQuantity(p.Security)
		}
		price, err := quotes.Get(p.Security)
		if err != nil {
			return nil, err
		}
		if _, err := calc.Accrue(p.Security, quantity, price, true); err != nil {
			return nil, err
		}

		result, err := sim.Process(Sale{
			Security:  p.Security,
			Quantity:  quantity,
			Price:     price,
			Date:      today,
			Simulated: true,
		})
		if err != nil {
			return nil, err
		}
		report.Trades = append(report.Trades, result)
		report.Totals.accumulate(result)
	}

	// The batch commissions reduce the aggregate profit, valued today.
	report.Commissions = calc.Total()
	for commission := range report.Commissions.Balances() {
		report.Totals.Profit.Withdraw(commission)
		local, err := s.Converter.Convert(commission, today, s.LocalCurrency)
		if err != nil {
			return nil, err
		}
		report.Totals.LocalProfit = report.Totals.LocalProfit.Sub(local)
	}
	sim.finalize(report.Totals)
	return report, nil
}
