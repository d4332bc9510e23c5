package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fpa"
	"github.com/etnz/fpa/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	month  string
	months int
	entity string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the month-by-month operating statement" }
func (*summaryCmd) Usage() string {
	return `cfo summary [-m <month>] [-months <n>] [-entity <name>]

  Displays the operating statement over a window of months: revenue,
  COGS, gross profit and margin, opex by category, and EBITDA, with one
  column per month. All amounts are normalized to USD.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Last month of the statement (e.g. 2025-06 or 'June 2025'). Defaults to the latest month with actuals.")
	f.IntVar(&c.months, "months", 3, "Number of months to display.")
	f.StringVar(&c.entity, "entity", "", "Restrict the statement to one entity.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.months < 1 {
		fmt.Fprintln(os.Stderr, "Error: -months must be at least 1.")
		return subcommands.ExitUsageError
	}

	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var end fpa.Month
	if c.month == "" {
		var ok bool
		end, ok = b.Actuals.Latest()
		if !ok {
			fmt.Fprintln(os.Stderr, "No actuals loaded, nothing to summarize.")
			return subcommands.ExitFailure
		}
	} else {
		end, err = fpa.ParseMonth(c.month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	st, err := fpa.NewStatement(b, fpa.LastN(end, c.months), c.entity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.StatementMarkdown(st))
	return subcommands.ExitSuccess
}
