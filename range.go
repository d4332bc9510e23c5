package fpa

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of months.
type Range struct{ From, To Month }

// NewRange creates a new month range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Month) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// On returns the range covering a single month.
func On(m Month) Range { return Range{From: m, To: m} }

// LastN returns the range of the n months ending at 'end', inclusive.
func LastN(end Month, n int) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: end.Add(-(n - 1)), To: end}
}

// Contains returns true if the month is included in the range (boundaries included).
func (r Range) Contains(m Month) bool { return !m.Before(r.From) && !m.After(r.To) }

// Len returns the number of months in the range.
func (r Range) Len() int {
	return (r.To.Year()-r.From.Year())*12 + int(r.To.Month()-r.From.Month()) + 1
}

// Months returns an iterator that yields each month within the range, inclusive.
func (r Range) Months() iter.Seq[Month] {
	return func(yield func(Month) bool) {
		for m := r.From; !m.After(r.To); m = m.Add(1) {
			if !yield(m) {
				return
			}
		}
	}
}

// String formats the range as "2025-01..2025-06", or as a single month when
// the range covers one.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return fmt.Sprintf("%s..%s", r.From, r.To)
}

// Label formats the range for humans, e.g. "April 2025 to June 2025".
func (r Range) Label() string {
	if r.From == r.To {
		return r.From.Label()
	}
	return fmt.Sprintf("%s to %s", r.From.Label(), r.To.Label())
}
