package fpa

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Percent float64

// Ratio returns num/den expressed as a Percent. ok is false when den is zero
// and the ratio is undefined.
func Ratio(num, den decimal.Decimal) (p Percent, ok bool) {
	if den.IsZero() {
		return 0, false
	}
	return Percent(num.Div(den).InexactFloat64() * 100), true
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
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
