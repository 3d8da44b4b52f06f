package papertrade

// Holding is the aggregated position in one symbol.
//
// Shares share one blended cost: CostBasis is the total dollar cost attributed
// to the shares currently held, and CostBasis / Quantity is their average cost.
type Holding struct {
	Symbol    string
	Quantity  Quantity // Quantity is always positive for a held position.
	CostBasis Money
}

// AverageCost returns the cost basis per share.
func (h Holding) AverageCost() Money {
	if h.Quantity.IsZero() {
		return Money{}
	}
	return h.CostBasis.Div(h.Quantity)
}

// buy returns the holding after acquiring quantity shares for cost.
func (h Holding) buy(quantity Quantity, cost Money) Holding {
	h.Quantity += quantity
	h.CostBasis = h.CostBasis.Add(cost)
	return h
}

// sell returns the holding left after selling quantity shares, and the cost
// basis attributed to the sold shares. The remaining shares keep the same
// average cost. Selling everything returns a zero Quantity and the whole basis.
func (h Holding) sell(quantity Quantity) (Holding, Money) {
	if quantity >= h.Quantity {
		removed := h.CostBasis
		h.Quantity, h.CostBasis = 0, Money{}
		return h, removed
	}
	removed := h.CostBasis.MulRatio(quantity, h.Quantity)
	h.Quantity -= quantity
	h.CostBasis = h.CostBasis.Sub(removed)
	return h, removed
}
