package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fpa"
	"github.com/etnz/fpa/gsheet"
	"github.com/google/subcommands"
)

// pullCmd holds the flags for the 'pull' subcommand.
type pullCmd struct{}

func (*pullCmd) Name() string     { return "pull" }
func (*pullCmd) Synopsis() string { return "download the monthly tables from a Google spreadsheet" }
func (*pullCmd) Usage() string {
	return `cfo pull

  Downloads the four monthly tables from the Google spreadsheet named by
  the CFO_SPREADSHEET_ID environment variable. Each table is read from
  the tab bearing its name (actuals, budget, fx, cash) and written to
  the data folder as csv.

  Credentials are read from GOOGLE_SERVICE_ACCOUNT_JSON,
  GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
`
}

func (c *pullCmd) SetFlags(f *flag.FlagSet) {}

func (c *pullCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, file := range []string{fpa.ActualsFile, fpa.BudgetFile, fpa.FxFile, fpa.CashFile} {
		tab := strings.TrimSuffix(file, ".csv")
		data, err := client.CSV(ctx, tab)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error downloading %q: %v\n", tab, err)
			return subcommands.ExitFailure
		}
		target := filepath.Join(*dataDir, file)
		if err := os.WriteFile(target, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("wrote %s\n", target)
	}

	// Reload to catch malformed rows before the next question hits them.
	if _, err := fpa.Load(*dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: downloaded tables do not validate: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
