package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/papertrade"
)

// GainsMarkdown renders the realized gains, computed with the average cost method.
func GainsMarkdown(g papertrade.Gains) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Realized Gains\n\n")
	fmt.Fprint(&b, "Method: average cost\n\n")
	if len(g.Symbols) == 0 {
		fmt.Fprintln(&b, "Nothing sold yet.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Sold | Proceeds | Cost | Realized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, s := range g.Symbols {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.Symbol,
			s.Sold,
			s.Proceeds,
			s.Cost,
			s.Realized.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | **%s** |\n", "Total", g.Realized.SignedString())
	return b.String()
}
