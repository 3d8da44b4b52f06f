package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/papertrade"
)

// HoldingsMarkdown renders every position of a valuation.
func HoldingsMarkdown(v papertrade.Valuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings of %s\n\n", v.AccountID)

	if len(v.Positions) == 0 && len(v.Unpriced) == 0 {
		fmt.Fprintln(&b, "No holdings.")
		fmt.Fprintf(&b, "\nCash: %s\n", v.Cash)
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Average Cost | Cost Basis | Price | Market Value | Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, p := range v.Positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			p.Symbol,
			p.Quantity,
			p.AverageCost(),
			p.CostBasis,
			p.Price,
			p.MarketValue,
			p.UnrealizedGain.SignedString(),
		)
	}
	for _, h := range v.Unpriced {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | n/a | n/a | n/a |\n",
			h.Symbol,
			h.Quantity,
			h.AverageCost(),
			h.CostBasis,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | **%s** | |\n", v.MarketValue)

	fmt.Fprintf(&b, "\nCash: %s\n", v.Cash)
	return b.String()
}
