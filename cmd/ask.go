package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fpa/renderer"
	"github.com/google/subcommands"
)

// askCmd holds the flags for the 'ask' subcommand.
type askCmd struct {
	json bool
}

func (*askCmd) Name() string     { return "ask" }
func (*askCmd) Synopsis() string { return "answer one question about the books" }
func (*askCmd) Usage() string {
	return `cfo ask [-json] <question>

  Classifies the question, computes the answer from the csv tables, and
  prints it as markdown. The question does not need quoting: everything
  after the flags is the question.

Usage Examples:
$ cfo ask What was June 2025 revenue vs budget in USD?
$ cfo ask -json show the gross margin trend for the last 3 months
`
}

func (c *askCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the structured result as JSON instead of markdown")
}

func (c *askCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: ask needs a question.")
		return subcommands.ExitUsageError
	}

	b, err := LoadBooks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res := b.Answer(question)
	if c.json {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.AnswerMarkdown(res))
	return subcommands.ExitSuccess
}
