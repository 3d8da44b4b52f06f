package papertrade

import (
	"fmt"
	"maps"
	"testing"
	"time"
)

// fixedPrices returns an oracle pricing the given symbols and failing for any other.
func fixedPrices(prices map[string]float64) PriceOracle {
	return PriceFunc(func(symbol string) (Money, error) {
		p, ok := prices[symbol]
		if !ok {
			return Money{}, fmt.Errorf("no price for %q", symbol)
		}
		return M(p), nil
	})
}

// pricedAt returns an oracle pricing every symbol at price.
func pricedAt(price float64) PriceOracle {
	return PriceFunc(func(string) (Money, error) { return M(price), nil })
}

// countingOracle records how many times it was asked for a price.
type countingOracle struct {
	PriceOracle
	calls int
}

func (o *countingOracle) Price(symbol string) (Money, error) {
	o.calls++
	return o.PriceOracle.Price(symbol)
}

// ticking returns a clock advancing by one second on every call.
func ticking() func() time.Time {
	t := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// newTestAccount creates an account with a deterministic clock.
func newTestAccount(t *testing.T) *Account {
	t.Helper()
	return NewAccount("test_user_001", WithClock(ticking()))
}

// state captures everything an operation can change.
type state struct {
	cash      Money
	deposited Money
	holdings  map[string]Holding
	count     int
}

func stateOf(a *Account) state {
	s := state{cash: a.Cash(), deposited: a.InitialDeposit(), holdings: make(map[string]Holding), count: len(a.Transactions())}
	for _, h := range a.Positions() {
		s.holdings[h.Symbol] = h
	}
	return s
}

func (s state) equal(o state) bool {
	return s.cash.Equal(o.cash) && s.deposited.Equal(o.deposited) && s.count == o.count &&
		maps.EqualFunc(s.holdings, o.holdings, func(a, b Holding) bool {
			return a.Symbol == b.Symbol && a.Quantity == b.Quantity && a.CostBasis.Equal(b.CostBasis)
		})
}

// checkInvariants verifies conservation of cash and positivity of holdings.
func checkInvariants(t *testing.T, a *Account) {
	t.Helper()
	var sum Money
	for _, tx := range a.Transactions() {
		sum = sum.Add(tx.Amount)
	}
	if cash := a.Cash(); !cash.Equal(sum) {
		t.Errorf("cash balance is %v, want the sum of transaction amounts %v", cash, sum)
	}
	if a.Cash().IsNegative() {
		t.Errorf("cash balance is negative: %v", a.Cash())
	}
	for symbol, q := range a.Holdings() {
		if !q.IsPositive() {
			t.Errorf("holding %s has a non positive quantity %v", symbol, q)
		}
	}
}
