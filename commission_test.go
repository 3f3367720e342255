package capgains

import "testing"

func TestNotionalFeeSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule NotionalFeeSchedule
		quantity Quantity
		price    Money
		want     Money
	}{
		{
			"fixed plus rate",
			NotionalFeeSchedule{Fixed: dec(2), Rate: dec(0.001)},
			Q(10), usd(100), // notional 1000
			usd(3),
		},
		{
			"minimum clamps small orders",
			NotionalFeeSchedule{Rate: dec(0.001), Minimum: dec(5)},
			Q(1), usd(100),
			usd(5),
		},
		{
			"explicit fee currency wins",
			NotionalFeeSchedule{Currency: "EUR", Fixed: dec(4)},
			Q(1), usd(100),
			eur(4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.schedule.CommissionFor("AAPL", tt.quantity, tt.price, true)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("fee = %s %s, want %s %s", got, got.Currency(), tt.want, tt.want.Currency())
			}
		})
	}
}

func TestCommissionCalcTotals(t *testing.T) {
	calc := NewCommissionCalc(NotionalFeeSchedule{Fixed: dec(10)})

	fee, err := calc.Accrue("AAPL", Q(1), usd(100), true)
	if err != nil {
		t.Fatal(err)
	}
	if !fee.Equal(usd(10)) {
		t.Errorf("fee = %s", fee)
	}
	calc.Accrue("AAPL", Q(1), usd(100), true)
	calc.Accrue("SAP", Q(1), eur(100), true)

	total := calc.Total()
	if got := total.Balance("USD"); !got.Equal(usd(20)) {
		t.Errorf("USD total = %s", got)
	}
	if got := total.Balance("EUR"); !got.Equal(eur(10)) {
		t.Errorf("EUR total = %s", got)
	}
}
