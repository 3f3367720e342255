package capgains

import (
	"fmt"
	"iter"
	"sort"
)

// CommandType is a typed string for identifying trade commands.
type CommandType string

// Command types used for identifying trades.
const (
	CmdBuy  CommandType = "buy"
	CmdSell CommandType = "sell"
)

// Trade is one executed order from the account history, as supplied by the
// statement provider. It is never mutated after creation.
type Trade struct {
	Command    CommandType
	Date       Date
	Security   string
	Quantity   Quantity
	Price      Money // unit price
	Commission Money
}

// NewBuy creates a buy trade record.
func NewBuy(on Date, security string, quantity Quantity, price, commission Money) Trade {
	return Trade{Command: CmdBuy, Date: on, Security: security, Quantity: quantity, Price: price, Commission: commission}
}

// NewSell creates a sell trade record.
func NewSell(on Date, security string, quantity Quantity, price, commission Money) Trade {
	return Trade{Command: CmdSell, Date: on, Security: security, Quantity: quantity, Price: price, Commission: commission}
}

// Validate checks the trade's fields for structural correctness.
func (t Trade) Validate() error {
	if t.Command != CmdBuy && t.Command != CmdSell {
		return fmt.Errorf("unknown trade command %q", t.Command)
	}
	if t.Security == "" {
		return fmt.Errorf("%s trade on %s has no security", t.Command, t.Date)
	}
	if !t.Quantity.IsPositive() || !t.Quantity.IsInteger() {
		return fmt.Errorf("%s %q quantity must be a positive whole number, got %s", t.Command, t.Security, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%s %q unit price must be positive, got %s", t.Command, t.Security, t.Price)
	}
	if t.Commission.IsNegative() {
		return fmt.Errorf("%s %q commission cannot be negative, got %s", t.Command, t.Security, t.Commission)
	}
	return nil
}

// TradeHistory is the chronological record of executed orders.
//
// In a TradeHistory trades are always in chronological order.
type TradeHistory struct {
	trades []Trade
}

// NewTradeHistory creates a history from trades, sorting them by date. The
// sort is stable: trades on the same day keep their original relative order.
func NewTradeHistory(trades ...Trade) *TradeHistory {
	h := &TradeHistory{}
	h.Append(trades...)
	return h
}

// Append adds trades and maintains the chronological order.
func (h *TradeHistory) Append(trades ...Trade) {
	h.trades = append(h.trades, trades...)
	sort.SliceStable(h.trades, func(i, j int) bool {
		return h.trades[i].Date.Before(h.trades[j].Date)
	})
}

// Trades returns an iterator over the trades in chronological order.
func (h *TradeHistory) Trades() iter.Seq2[int, Trade] {
	return func(yield func(int, Trade) bool) {
		for i, t := range h.trades {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Replay runs the history through the engine in chronological order: buys
// open lots in the engine's book, sells settle against them. Sell results
// are returned in input order with the aggregate totals.
//
// A historical sell exceeding the open position is a hard error, not a
// recoverable one: a real history cannot dispose of more than it acquired,
// so an InsufficientQuantityError here means the statement is corrupted.
func (s *Settlement) Replay(h *TradeHistory) (*Report, error) {
	report := &Report{
		Commissions: NewCashAccount(s.LocalCurrency),
		Totals:      s.newTotals(),
	}
	for i, t := range h.Trades() {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		switch t.Command {
		case CmdBuy:
			err := s.Book.Add(Lot{
				Security:   t.Security,
				Date:       t.Date,
				Quantity:   t.Quantity,
				Price:      t.Price,
				Commission: t.Commission,
			})
			if err != nil {
				return nil, fmt.Errorf("trade %d: %w", i, err)
			}
		case CmdSell:
			result, err := s.Process(Sale{
				Security:   t.Security,
				Quantity:   t.Quantity,
				Price:      t.Price,
				Commission: t.Commission,
				Date:       t.Date,
			})
			if err != nil {
				return nil, fmt.Errorf("trade %d (%s %q on %s): %w", i, t.Command, t.Security, t.Date, err)
			}
			report.Trades = append(report.Trades, result)
			report.Totals.accumulate(result)
		}
	}
	s.finalize(report.Totals)
	return report, nil
}

// MarshalJSON implements the json.Marshaler interface for Trade, keeping a
// canonical field order in the trade file.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Append("security", t.Security)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	if !t.Commission.IsZero() {
		w.Append("commission", t.Commission)
	}
	return w.MarshalJSON()
}
