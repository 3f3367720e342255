package capgains

import (
	"errors"
	"testing"
)

func TestRateTableConvert(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "EUR", day("2024-01-01"), dec(0.9))
	table.Add("USD", "EUR", day("2024-01-05"), dec(0.8))

	tests := []struct {
		name string
		in   Money
		on   Date
		to   string
		want Money
	}{
		{"exact date", usd(100), day("2024-01-01"), "EUR", eur(90)},
		{"carries over to the next days", usd(100), day("2024-01-03"), "EUR", eur(90)},
		{"newer rate takes over", usd(100), day("2024-01-05"), "EUR", eur(80)},
		{"and stays", usd(100), day("2024-02-01"), "EUR", eur(80)},
		{"same currency needs no rate", nok(42), day("2020-01-01"), "NOK", nok(42)},
		{"inverse pair fallback", eur(80), day("2024-01-05"), "USD", usd(100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Convert(tt.in, tt.on, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Convert(%s, %s, %s) = %s, want %s", tt.in, tt.on, tt.to, got, tt.want)
			}
		})
	}
}

func TestRateTableMissingRate(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "EUR", day("2024-01-05"), dec(0.9))

	// Before the first published rate there is nothing to carry over.
	_, err := table.Convert(usd(1), day("2024-01-01"), "EUR")
	if !errors.Is(err, ErrConversionUnavailable) {
		t.Errorf("got %v, want ErrConversionUnavailable", err)
	}
	_, err = table.Convert(usd(1), day("2024-01-10"), "NOK")
	if !errors.Is(err, ErrConversionUnavailable) {
		t.Errorf("unknown pair: got %v, want ErrConversionUnavailable", err)
	}
}

// countingConverter counts how often the wrapped source is asked.
type countingConverter struct {
	*RateTable
	calls int
}

func (c *countingConverter) Convert(amount Money, on Date, to string) (Money, error) {
	c.calls++
	return c.RateTable.Convert(amount, on, to)
}

func TestCachedConverter(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "EUR", day("2024-01-01"), dec(0.9))
	source := &countingConverter{RateTable: table}
	cached := NewCachedConverter(source)

	got, err := cached.Convert(usd(100), day("2024-01-02"), "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(eur(90)) {
		t.Errorf("first convert = %s", got)
	}

	// Same pair and date: the memoized unit rate serves, whatever the amount.
	if _, err := cached.Convert(usd(5000), day("2024-01-02"), "EUR"); err != nil {
		t.Fatal(err)
	}
	if source.calls != 1 {
		t.Errorf("source asked %d times, want 1", source.calls)
	}

	// A different date is a different rate.
	if _, err := cached.Convert(usd(1), day("2024-01-03"), "EUR"); err != nil {
		t.Fatal(err)
	}
	if source.calls != 2 {
		t.Errorf("source asked %d times, want 2", source.calls)
	}

	// Same currency never reaches the source.
	if _, err := cached.Convert(usd(1), day("2024-01-04"), "USD"); err != nil {
		t.Fatal(err)
	}
	if source.calls != 2 {
		t.Errorf("same-currency convert hit the source")
	}
}
