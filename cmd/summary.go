package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the account value and profit/loss" }
func (*summaryCmd) Usage() string {
	return `pt summary

  Displays the cash balance, the market value of the holdings, the portfolio value and
  the profit/loss against the cumulative deposits.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		printMarkdown(renderer.SummaryMarkdown(s.Valuation()))
		return subcommands.ExitSuccess
	})
}

// pnlCmd prints the profit/loss as a bare number, for scripts.
type pnlCmd struct{}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "print the profit/loss as a number" }
func (*pnlCmd) Usage() string {
	return `pt pnl

  Prints the portfolio value minus the cumulative deposits, as a plain decimal number.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {}

func (c *pnlCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		fmt.Fprintln(stdout, s.Valuation().ProfitLoss.Decimal().StringFixed(2))
		return subcommands.ExitSuccess
	})
}
