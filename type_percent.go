package capgains

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a display-oriented ratio, e.g. 5.25 for 5.25%.
type Percent float64

// percentOf returns a/b as a Percent. Callers must rule out a zero b first.
func percentOf(a, b decimal.Decimal) Percent {
	return Percent(a.Div(b).InexactFloat64() * 100)
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
