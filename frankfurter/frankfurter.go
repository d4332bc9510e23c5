// Package frankfurter fetches currency conversion rates from the Frankfurter
// API (https://frankfurter.dev), a free service publishing the European
// Central Bank reference rates.
package frankfurter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fpa"
	"github.com/shopspring/decimal"
)

// Client queries the Frankfurter API.
type Client struct {
	http *http.Client
	base string
}

// NewClient returns a client for the public Frankfurter endpoint. Responses
// are cached on disk and expire daily.
func NewClient() *Client {
	return &Client{http: newDailyCachingClient(), base: "https://api.frankfurter.dev/v1"}
}

// MonthEnd returns the USD conversion rate of a currency at the end of the
// given month.
//
// Example response for https://api.frankfurter.dev/v1/2025-06-30?base=EUR&symbols=USD
//
//	{
//	    "amount": 1.0,
//	    "base": "EUR",
//	    "date": "2025-06-30",
//	    "rates": {
//	        "USD": 1.1787
//	    }
//	}
//
// The API snaps a non-trading day to the trading day before it, so asking for
// the last calendar day of the month yields the month-end fixing.
func (c *Client) MonthEnd(currency string, m fpa.Month) (fpa.Rate, error) {
	// day 0 of the next month is the last day of m.
	day := time.Date(m.Year(), m.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	if !m.Before(fpa.ThisMonth()) {
		// the month is still open, the latest fixing is the best there is.
		day = fpa.Now().UTC()
	}
	addr := fmt.Sprintf("%s/%s?base=%s&symbols=USD", c.base, day.Format("2006-01-02"), currency)

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return fpa.Rate{}, fmt.Errorf("error fetching %q rate: %w", currency, err)
	}
	rate, err := usdRate(jobj)
	if err != nil {
		return fpa.Rate{}, fmt.Errorf("error reading %q rate: %w", currency, err)
	}
	return fpa.Rate{Date: m, Currency: currency, ToUSD: rate}, nil
}

// usdRate extracts the USD rate from a Frankfurter response payload.
func usdRate(jobj any) (decimal.Decimal, error) {
	const path = "$.rates.USD"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("parsing %q: not a number: %v", path, jval)
	}
	return decimal.NewFromFloat(val), nil
}
