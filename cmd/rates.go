package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fpa"
	"github.com/etnz/fpa/frankfurter"
	"github.com/google/subcommands"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	month      string
	currencies string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "fetch month-end USD rates and update the fx table" }
func (*ratesCmd) Usage() string {
	return `cfo rates [-m <month>] [-currencies <list>]

  Fetches the month-end USD conversion rate of each currency from the
  Frankfurter API (ECB reference rates) and adds the missing rows to
  fx.csv. Existing rows are never touched: a loaded rate is an auditable
  input, one per month and currency.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month to fetch rates for. Defaults to the latest month with actuals.")
	f.StringVar(&c.currencies, "currencies", "", "Comma-separated currency codes. Defaults to the non-USD currencies found in the actuals.")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var month fpa.Month
	if c.month == "" {
		var ok bool
		month, ok = b.Actuals.Latest()
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: no actuals loaded, pass -m to pick a month.")
			return subcommands.ExitUsageError
		}
	} else {
		month, err = fpa.ParseMonth(c.month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	currencies := b.Actuals.Currencies()
	if c.currencies != "" {
		currencies = currencies[:0]
		for _, cur := range strings.Split(c.currencies, ",") {
			if cur = strings.ToUpper(strings.TrimSpace(cur)); cur != "" && cur != fpa.USD {
				currencies = append(currencies, cur)
			}
		}
	}
	if len(currencies) == 0 {
		fmt.Println("Nothing to fetch: the actuals are all USD.")
		return subcommands.ExitSuccess
	}

	client := frankfurter.NewClient()
	var fetched []fpa.Rate
	for _, cur := range currencies {
		if b.Rates.Has(cur, month) {
			fmt.Printf("fx.csv already has %s for %s, skipping\n", cur, month)
			continue
		}
		rate, err := client.MonthEnd(cur, month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", cur, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("fetched %s %s: %s\n", cur, month, rate.ToUSD)
		fetched = append(fetched, rate)
	}
	if len(fetched) == 0 {
		fmt.Println("fx.csv is already up to date.")
		return subcommands.ExitSuccess
	}

	if err := b.Rates.Append(fetched...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	target := filepath.Join(*dataDir, fpa.FxFile)
	out, err := os.Create(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := fpa.EncodeRates(out, b.Rates); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("wrote %d new rates to %s\n", len(fetched), target)
	return subcommands.ExitSuccess
}
