package quote

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/papertrade"
)

// Fixed is a static price table keyed by normalized symbol.
type Fixed map[string]papertrade.Money

// Demo returns the built-in demo price table.
func Demo() Fixed {
	return Fixed{
		"AAPL":  papertrade.M(150),
		"TSLA":  papertrade.M(250),
		"GOOGL": papertrade.M(100),
	}
}

// Price returns the table price for symbol.
func (f Fixed) Price(symbol string) (papertrade.Money, error) {
	price, ok := f[papertrade.NormalizeSymbol(symbol)]
	if !ok {
		return papertrade.Money{}, fmt.Errorf("%w for %q", ErrNoQuote, symbol)
	}
	return price, nil
}

// Symbols returns the symbols in the table, sorted.
func (f Fixed) Symbols() []string {
	return slices.Sorted(maps.Keys(f))
}
