package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade/renderer"
	"github.com/etnz/papertrade/session"
	"github.com/google/subcommands"
)

type txCmd struct {
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the account" }
func (*txCmd) Usage() string {
	return `pt tx [-head <n>] [-tail <n>]

  Lists the transactions in the order they were recorded.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	return withSession(ctx, func(s *session.Session) subcommands.ExitStatus {
		transactions := s.Account().Transactions()
		first := 1
		if p.head > 0 && len(transactions) > p.head {
			transactions = transactions[:p.head]
		}
		if p.tail > 0 && len(transactions) > p.tail {
			first = len(transactions) - p.tail + 1
			transactions = transactions[len(transactions)-p.tail:]
		}
		printMarkdown(renderer.TransactionsMarkdown(transactions, first))
		return subcommands.ExitSuccess
	})
}
