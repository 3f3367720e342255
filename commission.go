package capgains

import "github.com/shopspring/decimal"

// FeeSchedule is a broker's commission policy: per-trade minimums,
// percentage of notional, caps, whatever the broker dreamt up. The engine
// treats it as opaque. Fees may be denominated in a currency different from
// the trade's.
type FeeSchedule interface {
	CommissionFor(security string, quantity Quantity, price Money, simulated bool) (Money, error)
}

// CommissionCalc applies a fee schedule to a stream of trades and keeps the
// running total per currency. For a simulation batch the total is reported
// once in aggregate, separate from any per-trade commission.
type CommissionCalc struct {
	schedule FeeSchedule
	total    *CashAccount
}

// NewCommissionCalc creates a calculator for one batch of trades.
func NewCommissionCalc(schedule FeeSchedule) *CommissionCalc {
	return &CommissionCalc{schedule: schedule, total: NewCashAccount("")}
}

// Accrue computes the commission of one trade and adds it to the running
// total.
func (c *CommissionCalc) Accrue(security string, quantity Quantity, price Money, simulated bool) (Money, error) {
	fee, err := c.schedule.CommissionFor(security, quantity, price, simulated)
	if err != nil {
		return Money{}, err
	}
	c.total.Deposit(fee)
	return fee, nil
}

// Total returns the aggregated commissions, one balance per currency.
func (c *CommissionCalc) Total() *CashAccount { return c.total }

// NotionalFeeSchedule charges a fixed part plus a percentage of the traded
// notional, with a per-order minimum: the common retail broker shape. An
// empty Currency denominates the fee in the trade's own currency.
type NotionalFeeSchedule struct {
	Currency string
	Fixed    decimal.Decimal
	Rate     decimal.Decimal // applied to the notional
	Minimum  decimal.Decimal
}

// CommissionFor implements FeeSchedule.
func (f NotionalFeeSchedule) CommissionFor(security string, quantity Quantity, price Money, simulated bool) (Money, error) {
	notional := price.Mul(quantity)
	fee := notional.value.Mul(f.Rate).Add(f.Fixed)
	if fee.LessThan(f.Minimum) {
		fee = f.Minimum
	}
	currency := f.Currency
	if currency == "" {
		currency = price.Currency()
	}
	return M(fee, currency), nil
}
