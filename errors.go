package papertrade

import "errors"

// Failure kinds reported by Account operations. Returned errors wrap one of
// them, use errors.Is to tell them apart.
var (
	// ErrInvalidAmount reports a deposit or withdrawal amount that is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidQuantity reports a buy or sell quantity that is not positive.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientFunds reports a withdrawal or purchase exceeding the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares reports a sale exceeding the held position.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrUnknownSymbol reports a symbol the PriceOracle could not price.
	ErrUnknownSymbol = errors.New("unknown symbol")
)
