package capgains

import (
	"fmt"
	"iter"
)

// Lot is a single acquisition of a security, consumed FIFO by later sales.
// Only Quantity (and the attached Commission share) ever change, and only
// ever downward, when a sale consumes part of the lot.
type Lot struct {
	Security   string
	Date       Date  // acquisition date
	Quantity   Quantity
	Price      Money // unit price paid at acquisition
	Commission Money // share of the acquisition commission still attached
}

// Fragment is the part of a lot consumed by one sale.
type Fragment struct {
	Quantity Quantity
	Price    Money // unit price of the originating lot
	Date     Date  // acquisition date of the originating lot
}

// Cost is the fragment's acquisition cost, quantity times lot price, in the
// lot's currency.
func (f Fragment) Cost() Money { return f.Price.Mul(f.Quantity) }

// LotBook holds the open acquisition lots of every security. Each security's
// queue is ordered by acquisition date; the sum of a queue's quantities is
// the security's open position.
type LotBook struct {
	securities []string // insertion order, for deterministic iteration
	queues     map[string][]Lot
}

// NewLotBook creates an empty lot book.
func NewLotBook() *LotBook {
	return &LotBook{queues: make(map[string][]Lot)}
}

// Add appends an acquisition lot to its security's queue. Lots must arrive
// in chronological order and carry a positive whole quantity.
func (b *LotBook) Add(l Lot) error {
	if l.Security == "" {
		return fmt.Errorf("lot has no security")
	}
	if !l.Quantity.IsPositive() || !l.Quantity.IsInteger() {
		return fmt.Errorf("lot quantity for %q must be a positive whole number, got %s", l.Security, l.Quantity)
	}
	queue, ok := b.queues[l.Security]
	if !ok {
		b.securities = append(b.securities, l.Security)
	}
	if n := len(queue); n > 0 && l.Date.Before(queue[n-1].Date) {
		return fmt.Errorf("lot for %q on %s is older than the last recorded lot on %s", l.Security, l.Date, queue[n-1].Date)
	}
	b.queues[l.Security] = append(queue, l)
	return nil
}

// OpenQuantity returns the security's currently open quantity, zero if the
// security is unknown.
func (b *LotBook) OpenQuantity(security string) Quantity {
	var total Quantity
	for _, l := range b.queues[security] {
		total = total.Add(l.Quantity)
	}
	return total
}

// Positions iterates the securities with open lots and their open
// quantities, in first-acquisition order.
func (b *LotBook) Positions() iter.Seq2[string, Quantity] {
	return func(yield func(string, Quantity) bool) {
		for _, sec := range b.securities {
			q := b.OpenQuantity(sec)
			if q.IsZero() {
				continue
			}
			if !yield(sec, q) {
				return
			}
		}
	}
}

// Consume removes the requested quantity from the security's queue, earliest
// acquisition first, and returns the consumed fragments in that order. A lot
// fully consumed is removed; a lot partially consumed keeps its place with
// its quantity (and commission share) reduced. On error the book is left
// untouched: the total is checked before any lot is modified.
func (b *LotBook) Consume(security string, quantity Quantity) ([]Fragment, error) {
	queue, ok := b.queues[security]
	if !ok || len(queue) == 0 {
		return nil, &UnknownPositionError{Security: security}
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("consume quantity for %q must be positive, got %s", security, quantity)
	}
	if available := b.OpenQuantity(security); quantity.GreaterThan(available) {
		return nil, &InsufficientQuantityError{Security: security, Requested: quantity, Available: available}
	}

	var fragments []Fragment
	remaining := quantity
	for len(queue) > 0 && remaining.IsPositive() {
		lot := queue[0]
		take := lot.Quantity.Min(remaining)
		fragments = append(fragments, Fragment{Quantity: take, Price: lot.Price, Date: lot.Date})
		remaining = remaining.Sub(take)

		if take.Equal(lot.Quantity) {
			queue = queue[1:]
			continue
		}
		// Partial consumption: the commission share leaves with its shares.
		soldCommission := lot.Commission.Mul(take).Div(lot.Quantity)
		lot.Commission = lot.Commission.Sub(soldCommission)
		lot.Quantity = lot.Quantity.Sub(take)
		queue[0] = lot
	}
	b.queues[security] = queue
	return fragments, nil
}

// Clone returns a deep copy of the book. Simulations consume from a clone so
// the recorded history is never altered.
func (b *LotBook) Clone() *LotBook {
	c := &LotBook{
		securities: append([]string(nil), b.securities...),
		queues:     make(map[string][]Lot, len(b.queues)),
	}
	for sec, queue := range b.queues {
		c.queues[sec] = append([]Lot(nil), queue...)
	}
	return c
}
