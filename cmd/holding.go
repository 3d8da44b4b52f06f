package cmd

import (
	"context"
	"flag"

	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the positions at current prices" }
func (*holdingsCmd) Usage() string {
	return `pt holdings

  Displays every held position with its cost basis, current price and unrealized gain.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		printMarkdown(renderer.HoldingsMarkdown(s.Valuation()))
		return subcommands.ExitSuccess
	})
}
