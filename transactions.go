package papertrade

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind is a typed string for identifying transactions.
type Kind string

// Kinds of transactions recorded in the log.
const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
)

// ParseKind parses a transaction kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDeposit, KindWithdraw, KindBuy, KindSell:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind: %q", s)
	}
}

// IsTrade reports whether the kind moves shares (buy or sell).
func (k Kind) IsTrade() bool { return k == KindBuy || k == KindSell }

// Transaction is an immutable record of one committed operation.
//
// Symbol, Quantity and Price are only set for trades. Amount is the cash
// delta the operation caused: positive for deposits and sells, negative for
// withdrawals and buys.
type Transaction struct {
	Time     time.Time // Time is the instant the operation committed.
	Kind     Kind
	Symbol   string   // Symbol is the ticker traded.
	Quantity Quantity // Quantity is the number of shares traded.
	Price    Money    // Price is the per-share execution price.
	Amount   Money    // Amount is the signed cash delta.
}

func newDeposit(at time.Time, amount Money) Transaction {
	return Transaction{Time: at, Kind: KindDeposit, Amount: amount}
}

func newWithdraw(at time.Time, amount Money) Transaction {
	return Transaction{Time: at, Kind: KindWithdraw, Amount: amount.Neg()}
}

func newBuy(at time.Time, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Time: at, Kind: KindBuy, Symbol: symbol, Quantity: quantity, Price: price, Amount: price.Mul(quantity).Neg()}
}

func newSell(at time.Time, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Time: at, Kind: KindSell, Symbol: symbol, Quantity: quantity, Price: price, Amount: price.Mul(quantity)}
}

// Equal reports whether both transactions record the same operation.
func (t Transaction) Equal(o Transaction) bool {
	return t.Time.Equal(o.Time) && t.Kind == o.Kind && t.Symbol == o.Symbol && t.Quantity == o.Quantity &&
		t.Price.Equal(o.Price) && t.Amount.Equal(o.Amount)
}

// Validate checks that the record is well formed on its own: fields present
// only for the kinds that use them, and an amount consistent with its kind.
func (t Transaction) Validate() error {
	if t.Time.IsZero() {
		return errors.New("transaction time is missing")
	}
	switch t.Kind {
	case KindDeposit, KindWithdraw:
		if t.Symbol != "" || !t.Quantity.IsZero() || !t.Price.IsZero() {
			return fmt.Errorf("%s transaction cannot have a symbol, quantity or price", t.Kind)
		}
		if t.Kind == KindDeposit && !t.Amount.IsPositive() {
			return fmt.Errorf("%w: deposit amount must be positive, got %v", ErrInvalidAmount, t.Amount)
		}
		if t.Kind == KindWithdraw && !t.Amount.IsNegative() {
			return fmt.Errorf("%w: withdraw amount must be negative, got %v", ErrInvalidAmount, t.Amount)
		}
	case KindBuy, KindSell:
		if t.Symbol == "" {
			return fmt.Errorf("%s transaction symbol is missing", t.Kind)
		}
		if !t.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s transaction quantity must be positive, got %v", ErrInvalidQuantity, t.Kind, t.Quantity)
		}
		if !t.Price.IsPositive() {
			return fmt.Errorf("%s transaction price must be positive, got %v", t.Kind, t.Price)
		}
		want := t.Price.Mul(t.Quantity)
		if t.Kind == KindBuy {
			want = want.Neg()
		}
		if !t.Amount.Equal(want) {
			return fmt.Errorf("%w: %s of %v %s at %v must amount to %v, got %v", ErrInvalidAmount, t.Kind, t.Quantity, t.Symbol, t.Price, want, t.Amount)
		}
	default:
		return fmt.Errorf("unknown transaction kind: %q", t.Kind)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind)
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	w.Optional("symbol", t.Symbol)
	w.Optional("quantity", t.Quantity)
	w.Optional("price", t.Price)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Kind     Kind      `json:"kind"`
		Time     time.Time `json:"time"`
		Symbol   string    `json:"symbol,omitempty"`
		Quantity Quantity  `json:"quantity,omitempty"`
		Price    Money     `json:"price"`
		Amount   Money     `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		Time:     temp.Time,
		Kind:     temp.Kind,
		Symbol:   temp.Symbol,
		Quantity: temp.Quantity,
		Price:    temp.Price,
		Amount:   temp.Amount,
	}
	return nil
}
