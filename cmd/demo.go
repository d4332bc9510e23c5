package cmd

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
)

//go:embed demo/*.csv
var demoFS embed.FS

// demoCmd holds the flags for the 'demo' subcommand.
type demoCmd struct {
	force bool
}

func (*demoCmd) Name() string     { return "demo" }
func (*demoCmd) Synopsis() string { return "write a small demo dataset into the data folder" }
func (*demoCmd) Usage() string {
	return `cfo demo [-force]

  Writes three months of demo books into the data folder: two entities
  (one billing in EUR), a June budget, month-end fx rates and a cash
  statement. A starting point to try 'cfo ask' and 'cfo summary'.
`
}

func (c *demoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "overwrite existing csv tables")
}

func (c *demoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	names, err := fs.Glob(demoFS, "demo/*.csv")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, name := range names {
		target := filepath.Join(*dataDir, filepath.Base(name))
		if !c.force {
			if _, err := os.Stat(target); err == nil {
				fmt.Fprintf(os.Stderr, "Error: %s already exists, use -force to overwrite.\n", target)
				return subcommands.ExitFailure
			}
		}
		data, err := demoFS.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("wrote %s\n", target)
	}

	fmt.Println()
	fmt.Println("Try: cfo ask What was June 2025 revenue vs budget in USD?")
	return subcommands.ExitSuccess
}
