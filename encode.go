package capgains

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// tradeLine is a specialized struct for decoding one JSONL trade.
type tradeLine struct {
	Command    CommandType `json:"command"`
	Date       Date        `json:"date"`
	Security   string      `json:"security"`
	Quantity   Quantity    `json:"quantity"`
	Price      Money       `json:"price"`
	Commission Money       `json:"commission"`
}

// DecodeTrades decodes a stream of JSONL trade data into a sorted
// TradeHistory. Each line is validated on the way in.
func DecodeTrades(r io.Reader) (*TradeHistory, error) {
	history := NewTradeHistory()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var temp tradeLine
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("line %d: could not decode trade: %w", line, err)
		}
		trade := Trade{
			Command:    temp.Command,
			Date:       temp.Date,
			Security:   temp.Security,
			Quantity:   temp.Quantity,
			Price:      temp.Price,
			Commission: temp.Commission,
		}
		if err := trade.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		history.Append(trade)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return history, nil
}

// EncodeTrade marshals a single trade to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeTrade(w io.Writer, t Trade) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write trade: %w", err)
	}
	return nil
}

// EncodeTrades persists a history to an io.Writer in canonical JSONL format:
// chronological order, fixed field order per line.
func EncodeTrades(w io.Writer, h *TradeHistory) error {
	for _, t := range h.Trades() {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}

// rateLine is a specialized struct for decoding one JSONL exchange rate.
type rateLine struct {
	Date Date            `json:"date"`
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// DecodeRates decodes a stream of JSONL exchange-rate data into a RateTable.
// Each line carries the price of one unit of "from" expressed in "to" on a
// date.
func DecodeRates(r io.Reader) (*RateTable, error) {
	table := NewRateTable()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp rateLine
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("line %d: could not decode rate: %w", line, err)
		}
		if temp.From == "" || temp.To == "" || !temp.Rate.IsPositive() {
			return nil, fmt.Errorf("line %d: rate needs from, to and a positive rate", line)
		}
		table.Add(temp.From, temp.To, temp.Date, temp.Rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return table, nil
}

// quoteLine is a specialized struct for decoding one JSONL quote.
type quoteLine struct {
	Security string `json:"security"`
	Price    Money  `json:"price"`
}

// DecodeQuotes decodes a stream of JSONL quote data into a StaticQuotes
// source, for offline simulations.
func DecodeQuotes(r io.Reader) (StaticQuotes, error) {
	quotes := make(StaticQuotes)
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp quoteLine
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("line %d: could not decode quote: %w", line, err)
		}
		if temp.Security == "" || !temp.Price.IsPositive() {
			return nil, fmt.Errorf("line %d: quote needs a security and a positive price", line)
		}
		quotes[temp.Security] = temp.Price
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return quotes, nil
}
