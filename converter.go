package capgains

import (
	"fmt"
	"sort"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Converter converts an amount into another currency at a historical date.
// Implementations own the fill policy for dates without a published rate;
// when no rate can serve they fail with an error wrapping
// ErrConversionUnavailable, and the caller aborts.
type Converter interface {
	Convert(amount Money, on Date, to string) (Money, error)
}

type rateEntry struct {
	on   Date
	rate decimal.Decimal
}

// RateTable is an in-memory dated exchange-rate source. Lookups use the most
// recent rate at or before the requested date (the usual central-bank
// publication pattern: the last published rate carries over non-trading
// days). A direct pair is preferred; the inverse pair serves as fallback.
type RateTable struct {
	rates map[string][]rateEntry // keyed by pair, e.g. "USDEUR"; sorted by date
}

// NewRateTable creates an empty rate table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string][]rateEntry)}
}

// Add records the price of one unit of from, expressed in to, on a date.
func (t *RateTable) Add(from, to string, on Date, rate decimal.Decimal) {
	pair := from + to
	entries := append(t.rates[pair], rateEntry{on: on, rate: rate})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].on.Before(entries[j].on) })
	t.rates[pair] = entries
}

// rateAsOf returns the most recent rate at or before the date.
func (t *RateTable) rateAsOf(pair string, on Date) (decimal.Decimal, bool) {
	entries := t.rates[pair]
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].on.After(on) {
			return entries[i].rate, true
		}
	}
	return decimal.Decimal{}, false
}

// Convert implements Converter.
func (t *RateTable) Convert(amount Money, on Date, to string) (Money, error) {
	to = internCurrency(to)
	if amount.Currency() == to {
		return amount, nil
	}
	if rate, ok := t.rateAsOf(amount.Currency()+to, on); ok {
		return M(amount.value.Mul(rate), to), nil
	}
	if inverse, ok := t.rateAsOf(to+amount.Currency(), on); ok && !inverse.IsZero() {
		rate := decimal.NewFromInt(1).Div(inverse)
		return M(amount.value.Mul(rate), to), nil
	}
	return Money{}, fmt.Errorf("no %s to %s rate as of %s: %w", amount.Currency(), to, on, ErrConversionUnavailable)
}

// CachedConverter memoizes unit rates per (currency, date, target) triple in
// front of a slower source. Rate lookups for distinct pairs are independent,
// so a settlement run touching the same acquisition dates over and over asks
// the source only once per triple.
type CachedConverter struct {
	source Converter
	memo   *cache.Cache
}

// NewCachedConverter wraps a converter with an unbounded memo.
func NewCachedConverter(source Converter) *CachedConverter {
	return &CachedConverter{source: source, memo: cache.New(cache.NoExpiration, 0)}
}

// Convert implements Converter.
func (c *CachedConverter) Convert(amount Money, on Date, to string) (Money, error) {
	to = internCurrency(to)
	if amount.Currency() == to {
		return amount, nil
	}
	key := amount.Currency() + "/" + to + "@" + on.String()
	if v, ok := c.memo.Get(key); ok {
		return M(amount.value.Mul(v.(decimal.Decimal)), to), nil
	}
	// Learn the unit rate once, then scale locally.
	unit, err := c.source.Convert(M(1, amount.Currency()), on, to)
	if err != nil {
		return Money{}, err
	}
	c.memo.Set(key, unit.value, cache.DefaultExpiration)
	return M(amount.value.Mul(unit.value), to), nil
}
