package fpa

import (
	"iter"
	"slices"
	"sort"
)

// runwayDeltas is the number of month-over-month deltas the runway burn rate
// averages over; the statement needs one more month than that.
const runwayDeltas = 3

// CashBalance is the cash position at the end of one month, in the
// reporting currency.
type CashBalance struct {
	Date    Month
	Balance Money
}

// CashStatement keeps monthly cash balances in chronological order, one
// balance per month.
type CashStatement struct {
	months   []Month
	balances []Money
}

// NewCashStatement creates an empty cash statement.
func NewCashStatement() *CashStatement {
	return &CashStatement{}
}

// Len returns the number of months in the statement.
func (s *CashStatement) Len() int { return len(s.months) }

// Append adds a balance to the statement.
//
// An existing balance for that month is overwritten.
func (s *CashStatement) Append(on Month, balance Money) *CashStatement {
	if i := slices.Index(s.months, on); i >= 0 {
		// Replace, so the last loaded data wins.
		s.balances[i] = balance
		return s
	}
	s.months, s.balances = append(s.months, on), append(s.balances, balance)
	s.sort()
	return s
}

// chronological is a private implementation to keep the statement sorted.
type chronological struct{ *CashStatement }

func (s chronological) Len() int           { return len(s.months) }
func (s chronological) Less(i, j int) bool { return s.months[i].Before(s.months[j]) }
func (s chronological) Swap(i, j int) {
	s.months[i], s.months[j] = s.months[j], s.months[i]
	s.balances[i], s.balances[j] = s.balances[j], s.balances[i]
}

func (s *CashStatement) sort() { sort.Sort(chronological{s}) }

// Latest returns the most recent month and balance in the statement.
// If the statement is empty, it returns zero values.
func (s *CashStatement) Latest() (on Month, balance Money) {
	last := len(s.months) - 1
	if last < 0 {
		return Month{}, Money{}
	}
	return s.months[last], s.balances[last]
}

// Balances returns an iterator over the statement in chronological order.
func (s *CashStatement) Balances() iter.Seq[CashBalance] {
	return func(yield func(CashBalance) bool) {
		for i, m := range s.months {
			if !yield(CashBalance{Date: m, Balance: s.balances[i]}) {
				return
			}
		}
	}
}

// RunwayReport is the cash runway estimate as of one month.
type RunwayReport struct {
	AsOf    Month   `json:"as_of"`
	Cash    Money   `json:"cash"`     // balance as of AsOf
	AvgBurn Money   `json:"avg_burn"` // average monthly burn over the window, negative when burning
	Months  float64 `json:"months"`   // Cash / |AvgBurn|, meaningful only when Burning
	Burning bool    `json:"burning"`  // false when the window shows no net burn
}

// Runway estimates how many months of cash remain at the current burn rate,
// as of the given month.
//
// The burn rate is the average of the negative month-over-month deltas among
// the last three deltas ending at asOf; positive deltas (cash growth) are
// ignored. When no delta is negative the company is not burning and the
// report carries no month count. The statement needs at least four balances
// up to asOf, otherwise Runway fails with an InsufficientHistoryError.
func (s *CashStatement) Runway(asOf Month) (RunwayReport, error) {
	// keep balances up to asOf, inclusive.
	n := 0
	for n < len(s.months) && !s.months[n].After(asOf) {
		n++
	}
	if n < runwayDeltas+1 {
		return RunwayReport{}, &InsufficientHistoryError{Got: n, Need: runwayDeltas + 1}
	}

	report := RunwayReport{
		AsOf: s.months[n-1],
		Cash: s.balances[n-1],
	}

	burn := M(0, report.Cash.Currency())
	burning := 0
	for i := n - runwayDeltas; i < n; i++ {
		delta := s.balances[i].Sub(s.balances[i-1])
		if delta.IsNegative() {
			burn = burn.Add(delta)
			burning++
		}
	}
	if burning == 0 {
		return report, nil
	}

	report.Burning = true
	report.AvgBurn = burn.Div(newDecimal(burning))
	report.Months = report.Cash.value.Div(report.AvgBurn.value.Abs()).InexactFloat64()
	return report, nil
}
