package papertrade

import (
	"maps"
	"slices"
)

// PositionValue is a holding valued at its current price.
type PositionValue struct {
	Holding
	Price          Money
	MarketValue    Money // Quantity × Price
	UnrealizedGain Money // MarketValue − CostBasis
}

// Valuation is a priced view of an account at one point in time.
//
// Positions the oracle could not price are listed in Unpriced and left out of
// every total.
type Valuation struct {
	AccountID      string
	Cash           Money
	Positions      []PositionValue
	Unpriced       []Holding
	MarketValue    Money // sum of the priced positions
	Total          Money // Cash + MarketValue
	InitialDeposit Money
	ProfitLoss     Money // Total − InitialDeposit
}

// Valuation prices a consistent snapshot of the account with oracle.
//
// The snapshot is taken first and priced afterwards, so a slow oracle never
// blocks other operations on the account.
func (a *Account) Valuation(oracle PriceOracle) Valuation {
	a.mu.RLock()
	v := Valuation{
		AccountID:      a.id,
		Cash:           a.cash,
		InitialDeposit: a.deposited,
	}
	positions := a.positions()
	a.mu.RUnlock()

	for _, h := range positions {
		price, err := quote(oracle, h.Symbol)
		if err != nil {
			v.Unpriced = append(v.Unpriced, h)
			continue
		}
		value := price.Mul(h.Quantity)
		v.Positions = append(v.Positions, PositionValue{
			Holding:        h,
			Price:          price,
			MarketValue:    value,
			UnrealizedGain: value.Sub(h.CostBasis),
		})
		v.MarketValue = v.MarketValue.Add(value)
	}
	v.Total = v.Cash.Add(v.MarketValue)
	v.ProfitLoss = v.Total.Sub(v.InitialDeposit)
	return v
}

// SymbolGains holds the realized gain on one symbol.
type SymbolGains struct {
	Symbol   string
	Sold     Quantity // total shares sold
	Proceeds Money
	Cost     Money // cost basis removed by the sales
	Realized Money // Proceeds − Cost
}

// Gains is the realized gain report of a transaction log.
type Gains struct {
	Symbols  []SymbolGains // sorted by symbol, only symbols with at least one sale
	Realized Money
}

// RealizedGains computes, for every symbol sold in txs, the proceeds minus the
// cost basis removed under the average-cost rule.
func RealizedGains(txs []Transaction) Gains {
	holdings := make(map[string]Holding)
	gains := make(map[string]SymbolGains)
	for _, tx := range txs {
		switch tx.Kind {
		case KindBuy:
			holdings[tx.Symbol] = holdings[tx.Symbol].buy(tx.Quantity, tx.Amount.Neg())
		case KindSell:
			h, removed := holdings[tx.Symbol].sell(tx.Quantity)
			holdings[tx.Symbol] = h
			g := gains[tx.Symbol]
			g.Symbol = tx.Symbol
			g.Sold += tx.Quantity
			g.Proceeds = g.Proceeds.Add(tx.Amount)
			g.Cost = g.Cost.Add(removed)
			g.Realized = g.Proceeds.Sub(g.Cost)
			gains[tx.Symbol] = g
		}
	}

	var report Gains
	for _, symbol := range slices.Sorted(maps.Keys(gains)) {
		g := gains[symbol]
		report.Symbols = append(report.Symbols, g)
		report.Realized = report.Realized.Add(g.Realized)
	}
	return report
}
