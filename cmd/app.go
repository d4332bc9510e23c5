// Package cmd implements the CLI application to query the books.
package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/fpa"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", defaultDataDir(), "Path to the folder holding the monthly csv tables")

func defaultDataDir() string {
	if dir := os.Getenv("CFO_DATA"); dir != "" {
		return dir
	}
	return "fixtures"
}

var commands = []struct {
	cmd   subcommands.Command
	group string
}{
	{&askCmd{}, "questions"},
	{&chatCmd{}, "questions"},
	{&assistCmd{}, "questions"},
	{&summaryCmd{}, "reports"},
	{&demoCmd{}, "data"},
	{&ratesCmd{}, "data"},
	{&pullCmd{}, "data"},
	{&topicCmd{}, "documentation"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, sc := range commands {
		c.Register(sc.cmd, sc.group)
	}
}

// Names returns the subcommand names, for shell completion.
func Names() []string {
	names := make([]string, 0, len(commands))
	for _, sc := range commands {
		names = append(names, sc.cmd.Name())
	}
	return names
}

// LoadBooks loads the four csv tables from the data folder.
func LoadBooks() (*fpa.Books, error) {
	b, err := fpa.Load(*dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, data folder does not exist, using empty books instead")
		return fpa.NewBooks(nil, nil, nil, nil), nil
	}
	return b, err
}

// DataDir returns the folder the csv tables are loaded from.
func DataDir() string { return *dataDir }
