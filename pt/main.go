// Command pt trades on a paper account from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade/cmd"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	// Runs the completion when invoked by the shell, exits there.
	cmd.Completion().Complete("pt")

	commander := subcommands.NewCommander(flag.CommandLine, "pt")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	cmd.SetFlags(flag.CommandLine, cfg)
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
