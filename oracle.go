package papertrade

import (
	"fmt"
	"strings"
)

// PriceOracle resolves a ticker symbol to its current per-share price.
//
// An Account never stores an oracle: one is passed to every operation that
// needs pricing. Any error it returns, whatever the cause, is reported by the
// Account as ErrUnknownSymbol.
type PriceOracle interface {
	Price(symbol string) (Money, error)
}

// PriceFunc adapts an ordinary function to the PriceOracle interface.
type PriceFunc func(symbol string) (Money, error)

// Price calls f(symbol).
func (f PriceFunc) Price(symbol string) (Money, error) { return f(symbol) }

// NormalizeSymbol returns the canonical form of a ticker symbol typed by a
// user. Accounts never normalize: front ends call it on their input.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// quote asks the oracle for a price and folds every failure, including a
// non-positive price, into ErrUnknownSymbol.
func quote(oracle PriceOracle, symbol string) (Money, error) {
	if symbol == "" {
		return Money{}, fmt.Errorf("%w: empty symbol", ErrUnknownSymbol)
	}
	if oracle == nil {
		return Money{}, fmt.Errorf("%w: no price oracle for %q", ErrUnknownSymbol, symbol)
	}
	price, err := oracle.Price(symbol)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %w", ErrUnknownSymbol, symbol, err)
	}
	if !price.IsPositive() {
		return Money{}, fmt.Errorf("%w: %q priced at %v", ErrUnknownSymbol, symbol, price)
	}
	return price, nil
}
