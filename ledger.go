package papertrade

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Account is the ledger of one trading account: its cash balance, its
// holdings and the log of every committed operation.
//
// Each operation is atomic: it either fully applies (cash, holdings and log
// updated together) or fails with no observable change. Mutating operations
// are serialized; read operations may run concurrently and always observe the
// state strictly before or after a mutation. A PriceOracle passed to Buy or
// Sell may call the Account's read operations but not its mutating ones.
type Account struct {
	id  string
	now func() time.Time

	writer sync.Mutex   // one mutating operation at a time, held across oracle calls
	mu     sync.RWMutex // guards the fields below, held only to read or commit

	cash         Money
	deposited    Money // cumulative deposits, the profit/loss baseline
	holdings     map[string]Holding
	transactions []Transaction
}

// Option configures an Account.
type Option func(*Account)

// WithClock sets the clock used to timestamp transactions.
func WithClock(now func() time.Time) Option {
	return func(a *Account) { a.now = now }
}

// NewAccount creates an empty account. If id is empty a random one is generated.
func NewAccount(id string, opts ...Option) *Account {
	if id == "" {
		id = uuid.NewString()
	}
	a := &Account{
		id:           id,
		now:          time.Now,
		holdings:     make(map[string]Holding),
		transactions: make([]Transaction, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OpenAccount creates an account and deposits initialDeposit into it when it
// is positive. A zero initial deposit opens an empty account.
func OpenAccount(id string, initialDeposit Money, opts ...Option) (*Account, error) {
	if initialDeposit.IsNegative() {
		return nil, fmt.Errorf("%w: initial deposit cannot be negative, got %v", ErrInvalidAmount, initialDeposit)
	}
	a := NewAccount(id, opts...)
	if initialDeposit.IsPositive() {
		if err := a.Deposit(initialDeposit); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Replay rebuilds an account from a transaction log.
//
// Every record is checked like the live operation that produced it: the
// account must have had the cash or the shares, the amount must match price
// and quantity, and times must not go backwards. The first inconsistent record
// aborts the replay.
func Replay(id string, txs []Transaction, opts ...Option) (*Account, error) {
	a := NewAccount(id, opts...)
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction #%d: %w", i+1, err)
		}
		if err := a.check(tx); err != nil {
			return nil, fmt.Errorf("inconsistent transaction #%d: %w", i+1, err)
		}
		a.apply(tx)
	}
	return a, nil
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// Deposit adds amount to the cash balance and to the profit/loss baseline.
func (a *Account) Deposit(amount Money) error {
	a.writer.Lock()
	defer a.writer.Unlock()

	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive, got %v", ErrInvalidAmount, amount)
	}
	a.commit(newDeposit(a.timestamp(), amount))
	return nil
}

// Withdraw removes amount from the cash balance. The profit/loss baseline is
// not reduced.
func (a *Account) Withdraw(amount Money) error {
	a.writer.Lock()
	defer a.writer.Unlock()

	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdraw amount must be positive, got %v", ErrInvalidAmount, amount)
	}
	if cash := a.Cash(); cash.LessThan(amount) {
		return fmt.Errorf("%w: cannot withdraw %v, cash balance is %v", ErrInsufficientFunds, amount, cash)
	}
	a.commit(newWithdraw(a.timestamp(), amount))
	return nil
}

// Buy purchases quantity shares of symbol at the price given by oracle.
//
// It fails with ErrInvalidQuantity, ErrUnknownSymbol when the oracle cannot
// price the symbol, or ErrInsufficientFunds when the cost exceeds the cash
// balance. An account without cash fails with ErrInsufficientFunds before
// consulting the oracle. A buy that would grow the position past the largest
// representable quantity fails with ErrInvalidQuantity.
//
// The symbol is used as given, both to ask the oracle and to key the holding.
func (a *Account) Buy(symbol string, quantity Quantity, oracle PriceOracle) error {
	a.writer.Lock()
	defer a.writer.Unlock()

	if !quantity.IsPositive() {
		return fmt.Errorf("%w: buy quantity must be positive, got %v", ErrInvalidQuantity, quantity)
	}
	if err := canAdd(a.position(symbol), quantity, symbol); err != nil {
		return err
	}
	cash := a.Cash()
	if cash.IsZero() {
		return fmt.Errorf("%w: cannot buy %v %s, cash balance is %v", ErrInsufficientFunds, quantity, symbol, cash)
	}
	price, err := quote(oracle, symbol)
	if err != nil {
		return err
	}
	if cost := price.Mul(quantity); cash.LessThan(cost) {
		return fmt.Errorf("%w: cannot buy %v %s for %v, cash balance is %v", ErrInsufficientFunds, quantity, symbol, cost, cash)
	}
	a.commit(newBuy(a.timestamp(), symbol, quantity, price))
	return nil
}

// Sell sells quantity shares of symbol at the price given by oracle.
//
// The position is checked before the oracle is consulted: selling more than
// is held, or a symbol not held at all, fails with ErrInsufficientShares even
// if the symbol could not be priced.
func (a *Account) Sell(symbol string, quantity Quantity, oracle PriceOracle) error {
	a.writer.Lock()
	defer a.writer.Unlock()

	if !quantity.IsPositive() {
		return fmt.Errorf("%w: sell quantity must be positive, got %v", ErrInvalidQuantity, quantity)
	}
	if held := a.position(symbol); held < quantity {
		return fmt.Errorf("%w: cannot sell %v of %q, position is only %v", ErrInsufficientShares, quantity, symbol, held)
	}
	price, err := quote(oracle, symbol)
	if err != nil {
		return err
	}
	a.commit(newSell(a.timestamp(), symbol, quantity, price))
	return nil
}

// Cash returns the current spendable cash balance.
func (a *Account) Cash() Money {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cash
}

// InitialDeposit returns the sum of all deposits ever made.
func (a *Account) InitialDeposit() Money {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.deposited
}

// Holdings returns the quantity held per symbol.
func (a *Account) Holdings() map[string]Quantity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snapshot := make(map[string]Quantity, len(a.holdings))
	for symbol, h := range a.holdings {
		snapshot[symbol] = h.Quantity
	}
	return snapshot
}

// Holding returns the position in symbol, including its cost basis.
func (a *Account) Holding(symbol string) (Holding, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	h, ok := a.holdings[symbol]
	return h, ok
}

// Positions returns every held position sorted by symbol.
func (a *Account) Positions() []Holding {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.positions()
}

// Transactions returns a copy of the transaction log in insertion order.
func (a *Account) Transactions() []Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.transactions)
}

// LastTransaction returns the most recent transaction, if any.
func (a *Account) LastTransaction() (Transaction, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.transactions) == 0 {
		return Transaction{}, false
	}
	return a.transactions[len(a.transactions)-1], true
}

// PortfolioValue returns the cash balance plus the market value of every
// holding the oracle can price. Holdings it cannot price are left out.
func (a *Account) PortfolioValue(oracle PriceOracle) Money {
	return a.Valuation(oracle).Total
}

// ProfitLoss returns PortfolioValue minus the cumulative deposits.
func (a *Account) ProfitLoss(oracle PriceOracle) Money {
	return a.Valuation(oracle).ProfitLoss
}

func (a *Account) positions() []Holding {
	symbols := slices.Sorted(maps.Keys(a.holdings))
	list := make([]Holding, 0, len(symbols))
	for _, symbol := range symbols {
		list = append(list, a.holdings[symbol])
	}
	return list
}

func (a *Account) position(symbol string) Quantity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.holdings[symbol].Quantity
}

// canAdd fails when buying quantity more shares on top of held would overflow.
func canAdd(held, quantity Quantity, symbol string) error {
	if quantity > math.MaxInt64-held {
		return fmt.Errorf("%w: cannot buy %v %q on top of %v, the position would overflow", ErrInvalidQuantity, quantity, symbol, held)
	}
	return nil
}

// timestamp returns the time for the next transaction, never before the last one.
// Callers hold the writer lock.
func (a *Account) timestamp() time.Time {
	now := a.now()
	if n := len(a.transactions); n > 0 && now.Before(a.transactions[n-1].Time) {
		return a.transactions[n-1].Time
	}
	return now
}

// commit applies a transaction whose preconditions were already checked.
func (a *Account) commit(tx Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.apply(tx)
}

// check verifies that tx could have been committed on the current state.
func (a *Account) check(tx Transaction) error {
	if n := len(a.transactions); n > 0 && tx.Time.Before(a.transactions[n-1].Time) {
		return fmt.Errorf("%s on %v is before the previous transaction on %v", tx.Kind, tx.Time, a.transactions[n-1].Time)
	}
	switch tx.Kind {
	case KindWithdraw, KindBuy:
		if a.cash.LessThan(tx.Amount.Neg()) {
			return fmt.Errorf("%w: cannot %s for %v, cash balance is %v", ErrInsufficientFunds, tx.Kind, tx.Amount.Neg(), a.cash)
		}
		if tx.Kind == KindBuy {
			return canAdd(a.holdings[tx.Symbol].Quantity, tx.Quantity, tx.Symbol)
		}
	case KindSell:
		if held := a.holdings[tx.Symbol].Quantity; held < tx.Quantity {
			return fmt.Errorf("%w: cannot sell %v of %q, position is only %v", ErrInsufficientShares, tx.Quantity, tx.Symbol, held)
		}
	}
	return nil
}

// apply updates cash, holdings and log for tx.
func (a *Account) apply(tx Transaction) {
	a.cash = a.cash.Add(tx.Amount)
	switch tx.Kind {
	case KindDeposit:
		a.deposited = a.deposited.Add(tx.Amount)
	case KindBuy:
		h := a.holdings[tx.Symbol]
		h.Symbol = tx.Symbol
		a.holdings[tx.Symbol] = h.buy(tx.Quantity, tx.Amount.Neg())
	case KindSell:
		h, _ := a.holdings[tx.Symbol].sell(tx.Quantity)
		if h.Quantity.IsZero() {
			delete(a.holdings, tx.Symbol)
		} else {
			a.holdings[tx.Symbol] = h
		}
	}
	a.transactions = append(a.transactions, tx)
}
