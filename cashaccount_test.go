package capgains

import (
	"slices"
	"testing"
)

func TestCashAccountDeposit(t *testing.T) {
	account := NewCashAccount("EUR")
	account.Deposit(usd(100))
	account.Deposit(eur(50))
	account.Deposit(usd(25))
	account.Withdraw(eur(70))

	if got := account.Balance("USD"); !got.Equal(usd(125)) {
		t.Errorf("USD balance = %s", got)
	}
	// A flow accumulator may go negative.
	if got := account.Balance("EUR"); !got.Equal(eur(-20)) {
		t.Errorf("EUR balance = %s", got)
	}
	if got := account.Balance("NOK"); !got.IsZero() {
		t.Errorf("NOK balance = %s", got)
	}
}

func TestCashAccountBalancesOrder(t *testing.T) {
	account := NewCashAccount("")
	account.Deposit(nok(1))
	account.Deposit(usd(1))
	account.Deposit(eur(1))
	account.Deposit(nok(1)) // does not change the order

	var currencies []string
	for b := range account.Balances() {
		currencies = append(currencies, b.Currency())
	}
	if !slices.Equal(currencies, []string{"NOK", "USD", "EUR"}) {
		t.Errorf("balances order = %v", currencies)
	}
}

func TestCashAccountZero(t *testing.T) {
	account := NewCashAccount("EUR")
	if !account.IsZero() {
		t.Error("empty account should be zero")
	}
	if got := account.String(); got != "-" {
		t.Errorf("empty account renders %q, want -", got)
	}

	account.Deposit(usd(10))
	account.Withdraw(usd(10))
	if !account.IsZero() {
		t.Error("balanced account should be zero")
	}
	// A zeroed balance disappears from the output too.
	for b := range account.Balances() {
		t.Errorf("unexpected balance %s", b)
	}

	// The zero Money is ignored entirely.
	account.Deposit(Money{})
	if !account.IsZero() {
		t.Error("zero Money should not create a balance")
	}
}

func TestCashAccountAddConverted(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "EUR", day("2024-01-01"), dec(0.9))

	account := NewCashAccount("EUR")
	if err := account.AddConverted(usd(100), day("2024-01-02"), table); err != nil {
		t.Fatal(err)
	}
	if err := account.SubConverted(usd(50), day("2024-01-02"), table); err != nil {
		t.Fatal(err)
	}
	if got := account.Balance("EUR"); !got.Equal(eur(45)) {
		t.Errorf("EUR balance = %s, want 45", got)
	}
	if err := account.AddConverted(nok(1), day("2024-01-02"), table); err == nil {
		t.Error("missing rate should abort the addition")
	}
}
