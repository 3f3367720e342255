package capgains

import "iter"

// CashAccount accumulates signed cash flows, holding at most one balance per
// currency. Balances may go negative: it is a flow accumulator, not a
// constrained account. Iteration order is the order in which currencies were
// first seen, so reports are deterministic.
type CashAccount struct {
	reporting string // target currency for converting additions, may be ""
	order     []string
	balances  map[string]Money
}

// NewCashAccount creates an empty account. The reporting currency is the
// target of AddConverted and SubConverted; it may be empty when the account
// only ever aggregates native amounts (e.g. commission totals).
func NewCashAccount(reportingCurrency string) *CashAccount {
	return &CashAccount{
		reporting: internCurrency(reportingCurrency),
		balances:  make(map[string]Money),
	}
}

// ReportingCurrency returns the account's declared conversion target.
func (a *CashAccount) ReportingCurrency() string { return a.reporting }

// Deposit adds the amount to its currency's balance, creating the entry if
// absent. Zero-valued money with no currency is ignored.
func (a *CashAccount) Deposit(m Money) {
	if m.Currency() == "" {
		return
	}
	b, ok := a.balances[m.Currency()]
	if !ok {
		a.order = append(a.order, m.Currency())
		b = M(0, m.Currency())
	}
	a.balances[m.Currency()] = b.Add(m)
}

// Withdraw subtracts the amount from its currency's balance, creating the
// entry if absent.
func (a *CashAccount) Withdraw(m Money) { a.Deposit(m.Neg()) }

// AddConverted converts the amount into the reporting currency at the given
// date and deposits the result. A missing rate aborts with
// ErrConversionUnavailable: the rate source owns any fill policy, not this
// account.
func (a *CashAccount) AddConverted(m Money, on Date, conv Converter) error {
	local, err := conv.Convert(m, on, a.reporting)
	if err != nil {
		return err
	}
	a.Deposit(local)
	return nil
}

// SubConverted converts the amount into the reporting currency at the given
// date and withdraws the result.
func (a *CashAccount) SubConverted(m Money, on Date, conv Converter) error {
	local, err := conv.Convert(m, on, a.reporting)
	if err != nil {
		return err
	}
	a.Withdraw(local)
	return nil
}

// Balance returns the balance held in one currency, zero if absent.
func (a *CashAccount) Balance(currency string) Money {
	if b, ok := a.balances[currency]; ok {
		return b
	}
	return M(0, currency)
}

// Balances iterates the non-zero balances in first-deposit order.
func (a *CashAccount) Balances() iter.Seq[Money] {
	return func(yield func(Money) bool) {
		for _, c := range a.order {
			b := a.balances[c]
			if b.IsZero() {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// IsZero reports whether every balance is zero.
func (a *CashAccount) IsZero() bool {
	for _, b := range a.balances {
		if !b.IsZero() {
			return false
		}
	}
	return true
}

// String renders all non-zero balances, space separated, for totals rows.
func (a *CashAccount) String() string {
	var s string
	for b := range a.Balances() {
		if s != "" {
			s += " "
		}
		s += b.Round().String()
	}
	if s == "" {
		return "-"
	}
	return s
}
