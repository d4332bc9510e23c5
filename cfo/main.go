package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fpa/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// pick up CFO_DATA, GEMINI_API_KEY and the spreadsheet settings from a
	// local .env if present.
	_ = godotenv.Load()

	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion answers shell completion requests and returns otherwise.
func completion() {
	names := cmd.Names()
	sub := make(map[string]*complete.Command, len(names))
	for _, name := range names {
		sub[name] = &complete.Command{}
	}
	c := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"data": predict.Dirs("*"),
		},
	}
	c.Complete("cfo")
}
