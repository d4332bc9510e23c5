package fpa

import (
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is the conversion rate of one currency to USD for one month.
type Rate struct {
	Date     Month
	Currency string
	ToUSD    decimal.Decimal
}

type rateKey struct {
	date Month
	cur  string
}

// Rates holds the monthly conversion table, at most one rate per
// (month, currency).
type Rates struct {
	rates map[rateKey]decimal.Decimal
}

// NewRates creates an empty conversion table.
func NewRates() *Rates {
	return &Rates{rates: make(map[rateKey]decimal.Decimal)}
}

// Append adds rates to the table. It rejects non-positive rates and
// duplicate (month, currency) pairs: a session must have a single auditable
// rate per month.
func (r *Rates) Append(rates ...Rate) error {
	for _, rate := range rates {
		if !rate.ToUSD.IsPositive() {
			return schemaErrorf("fx", "rate for %s in %s must be > 0, got %s", rate.Currency, rate.Date, rate.ToUSD)
		}
		key := rateKey{date: rate.Date, cur: rate.Currency}
		if _, exists := r.rates[key]; exists {
			return schemaErrorf("fx", "duplicate rate for %s in %s", rate.Currency, rate.Date)
		}
		r.rates[key] = rate.ToUSD
	}
	return nil
}

// Len returns the number of rates in the table.
func (r *Rates) Len() int { return len(r.rates) }

// Lookup returns the USD rate of a currency for a month. ok is false when no
// rate was recorded for that exact month.
func (r *Rates) Lookup(currency string, on Month) (rate decimal.Decimal, ok bool) {
	rate, ok = r.rates[rateKey{date: on, cur: currency}]
	return rate, ok
}

// Has reports whether a rate exists for the currency on that month.
func (r *Rates) Has(currency string, on Month) bool {
	_, ok := r.Lookup(currency, on)
	return ok
}

// ToUSD converts an amount into USD using the rate of the given month.
// USD amounts pass through without a lookup. A missing rate fails with a
// MissingRateError: rates are never forward- or back-filled, so conversions
// stay auditable.
func (r *Rates) ToUSD(m Money, on Month) (Money, error) {
	if m.Currency() == USD || m.Currency() == "" {
		return M(m.value, USD), nil
	}
	rate, ok := r.Lookup(m.Currency(), on)
	if !ok {
		return Money{}, &MissingRateError{Month: on, Currency: m.Currency()}
	}
	return M(m.value.Mul(rate), USD), nil
}

// All returns an iterator over all rates, sorted by month then currency.
func (r *Rates) All() iter.Seq[Rate] {
	keys := make([]rateKey, 0, len(r.rates))
	for k := range r.rates {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b rateKey) int {
		if c := a.date.Compare(b.date); c != 0 {
			return c
		}
		return strings.Compare(a.cur, b.cur)
	})
	return func(yield func(Rate) bool) {
		for _, k := range keys {
			if !yield(Rate{Date: k.date, Currency: k.cur, ToUSD: r.rates[k]}) {
				return
			}
		}
	}
}
