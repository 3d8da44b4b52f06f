package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

// openCmd holds the flags for the 'open' subcommand.
type openCmd struct {
	deposit string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a new account with an optional initial deposit" }
func (*openCmd) Usage() string {
	return `pt [-account <name>] open [-deposit <amount>]

  Opens a new, empty account and deposits the initial amount into it.
  Fails if the account already has transactions.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.deposit, "deposit", "0", "Initial cash deposit")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := papertrade.ParseMoney(c.deposit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing deposit: %v\n", err)
		return subcommands.ExitUsageError
	}
	if amount.IsNegative() {
		fmt.Fprintf(os.Stderr, "Error: %v: initial deposit cannot be negative\n", papertrade.ErrInvalidAmount)
		return subcommands.ExitUsageError
	}

	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		if n := len(s.Account().Transactions()); n > 0 {
			fmt.Fprintf(os.Stderr, "Error: account %q is already open with %d transactions\n", config.Account, n)
			return subcommands.ExitFailure
		}
		if amount.IsPositive() {
			if err := s.Deposit(ctx, amount); err != nil {
				fmt.Fprintf(os.Stderr, "Error depositing %v: %v\n", amount, err)
				return subcommands.ExitFailure
			}
		}
		fmt.Fprintf(stdout, "Opened account %q with %v\n", config.Account, s.Account().Cash())
		return subcommands.ExitSuccess
	})
}
