package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/etnz/fpa"
	"github.com/etnz/fpa/renderer"
	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"
)

// chatCmd holds the flags for the 'chat' subcommand.
type chatCmd struct {
	watch bool
}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "interactive question loop over the books" }
func (*chatCmd) Usage() string {
	return `cfo chat [-watch]

  Starts a small repl: each line is answered like 'cfo ask'. With -watch
  the csv tables are reloaded whenever they change on disk, so edits to
  the data show up in the next answer. Type 'bye' (or Ctrl+D) to exit.
`
}

func (c *chatCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.watch, "watch", false, "reload the books when the csv tables change")
}

func (c *chatCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	books, err := LoadBooks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var mu sync.Mutex
	current := func() *fpa.Books {
		mu.Lock()
		defer mu.Unlock()
		return books
	}

	if c.watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer watcher.Close()
		if err := watcher.Add(*dataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot watch %s: %v\n", *dataDir, err)
			return subcommands.ExitFailure
		}

		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Ext(event.Name) != ".csv" {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					reloaded, err := LoadBooks()
					if err != nil {
						log.Printf("reload failed, keeping previous books: %v", err)
						continue
					}
					mu.Lock()
					books = reloaded
					mu.Unlock()
					log.Printf("reloaded books after change to %s", filepath.Base(event.Name))
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					log.Printf("watch error: %v", err)
				}
			}
		}()
	}

	fmt.Println("Ask about the books. Type 'bye' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("cfo> ")
		if !scanner.Scan() {
			fmt.Println()
			return subcommands.ExitSuccess
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "bye" {
			return subcommands.ExitSuccess
		}
		printMarkdown(renderer.AnswerMarkdown(current().Answer(question)))
	}
}
