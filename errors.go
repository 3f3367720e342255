package capgains

import (
	"errors"
	"fmt"
)

// Sentinel errors for collaborator failures. Implementations of Converter and
// QuoteSource wrap these so callers can test with errors.Is without knowing
// the concrete source. A failed lookup aborts the whole computation: there is
// no partial-result fallback.
var (
	// ErrConversionUnavailable means no exchange rate exists for a
	// currency/date pair.
	ErrConversionUnavailable = errors.New("currency conversion unavailable")
	// ErrQuoteUnavailable means the quote source knows no price for a security.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// UnknownPositionError reports a sell or simulation request for a security
// with no open lots.
type UnknownPositionError struct {
	Security string
}

func (e *UnknownPositionError) Error() string {
	return fmt.Sprintf("no open position in %q", e.Security)
}

// InsufficientQuantityError reports a request to consume more shares than
// the book holds. Requested and Available make the error actionable without
// inspecting the book. When raised from historical replay it indicates a
// corrupted history (sells cannot exceed buys); from a simulation request it
// is an ordinary input error.
type InsufficientQuantityError struct {
	Security  string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient %q quantity: requested %s, available %s",
		e.Security, e.Requested, e.Available)
}
