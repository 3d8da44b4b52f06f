package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

// record runs a mutating operation and prints the transaction it recorded.
func record(ctx context.Context, what string, op func(context.Context, *session.Session) error) subcommands.ExitStatus {
	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		if err := op(ctx, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
			return subcommands.ExitFailure
		}
		tx, _ := s.Account().LastTransaction()
		fmt.Fprintf(stdout, "%s. Cash balance: %v\n", renderer.Transaction(tx), s.Account().Cash())
		return subcommands.ExitSuccess
	})
}

// --- Deposit Command ---

type depositCmd struct {
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the account" }
func (*depositCmd) Usage() string {
	return `deposit -a <amount>

  Adds cash to the account. Deposits are the baseline of the profit/loss.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to deposit")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := papertrade.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	return record(ctx, "depositing", func(ctx context.Context, s *session.Session) error { return s.Deposit(ctx, amount) })
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the account" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <amount>

  Removes cash from the account. The amount cannot exceed the cash balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to withdraw")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := papertrade.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	return record(ctx, "withdrawing", func(ctx context.Context, s *session.Session) error { return s.Withdraw(ctx, amount) })
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares at the current price" }
func (*buyCmd) Usage() string {
	return `buy -s <symbol> -q <quantity>

  Purchases shares at the current quoted price. The total cost is debited from the cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return record(ctx, "buying", func(ctx context.Context, s *session.Session) error {
		return s.Buy(ctx, papertrade.NormalizeSymbol(c.symbol), papertrade.Quantity(c.quantity))
	})
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current price" }
func (*sellCmd) Usage() string {
	return `sell -s <symbol> -q <quantity>

  Sells held shares at the current quoted price. The proceeds are credited to the cash balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return record(ctx, "selling", func(ctx context.Context, s *session.Session) error {
		return s.Sell(ctx, papertrade.NormalizeSymbol(c.symbol), papertrade.Quantity(c.quantity))
	})
}
