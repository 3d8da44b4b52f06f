package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/papertrade"
)

// SummaryMarkdown renders the headline figures of a valuation.
func SummaryMarkdown(v papertrade.Valuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Account %s\n\n", v.AccountID)

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Cash | %s |\n", v.Cash)
	fmt.Fprintf(&b, "| Market Value | %s |\n", v.MarketValue)
	fmt.Fprintf(&b, "| **Portfolio Value** | **%s** |\n", v.Total)
	fmt.Fprintf(&b, "| Deposited | %s |\n", v.InitialDeposit)
	fmt.Fprintf(&b, "| **Profit/Loss** | **%s** |\n", v.ProfitLoss.SignedString())

	unpricedWarning(&b, v)
	return b.String()
}

// unpricedWarning lists the positions left out of the totals, if any.
func unpricedWarning(w io.Writer, v papertrade.Valuation) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "\n> No price available, excluded from the totals:")
		for _, h := range v.Unpriced {
			fmt.Fprintf(w, " %s (%s shares)", h.Symbol, h.Quantity)
		}
		fmt.Fprintln(w)
		return len(v.Unpriced) > 0
	})
}
