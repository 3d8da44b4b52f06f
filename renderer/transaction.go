package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/papertrade"
)

// Transaction renders a transaction to a string.
func Transaction(tx papertrade.Transaction) string {
	switch tx.Kind {
	case papertrade.KindBuy:
		return fmt.Sprintf("Bought %s %s at %s for %s", tx.Quantity, tx.Symbol, tx.Price, tx.Amount.Neg())
	case papertrade.KindSell:
		return fmt.Sprintf("Sold %s %s at %s for %s", tx.Quantity, tx.Symbol, tx.Price, tx.Amount)
	case papertrade.KindDeposit:
		return fmt.Sprintf("Deposited %s", tx.Amount)
	case papertrade.KindWithdraw:
		return fmt.Sprintf("Withdrew %s", tx.Amount.Neg())
	default:
		return string(tx.Kind)
	}
}

// TransactionsMarkdown renders a transaction log. first is the position of
// txs[0] in the whole log, starting at 1.
func TransactionsMarkdown(txs []papertrade.Transaction, first int) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| # | Time | Operation | Amount |")
	fmt.Fprintln(&b, "|---:|:---|:---|---:|")
	for i, tx := range txs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			first+i,
			tx.Time.Local().Format(time.DateTime),
			Transaction(tx),
			tx.Amount.SignedString(),
		)
	}
	return b.String()
}
