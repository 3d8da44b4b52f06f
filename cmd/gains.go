package cmd

import (
	"context"
	"flag"

	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "display the realized gains per symbol" }
func (*gainsCmd) Usage() string {
	return `pt gains

  Displays, for every symbol sold, the proceeds minus the average cost of the shares sold.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		printMarkdown(renderer.GainsMarkdown(s.Gains()))
		return subcommands.ExitSuccess
	})
}
