// Package session binds an account to its persistent journal and to the price
// oracle it trades with.
//
// Every successful operation is appended to the journal before it is
// reported as done. When the journal cannot be written the account is rebuilt
// from what the journal holds, so memory and storage never diverge. If even
// that fails, the account goes back to its state before the operation and
// the session refuses further mutations until it is reopened.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/store"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by mutations once a session lost track of its
// journal.
var ErrUnavailable = errors.New("session unavailable")

// Session is a persistent account.
type Session struct {
	writer sync.Mutex   // one mutation and its persistence at a time
	mu     sync.RWMutex // guards account, swapped on rebuild

	id      string
	account *papertrade.Account
	journal store.Journal
	oracle  papertrade.PriceOracle
	opts    []papertrade.Option
	log     zerolog.Logger
	failed  error // set when the account could not be rebuilt, guarded by writer
}

// Open replays the journal into the account id.
func Open(ctx context.Context, id string, journal store.Journal, oracle papertrade.PriceOracle, log zerolog.Logger, opts ...papertrade.Option) (*Session, error) {
	s := &Session{
		id:      id,
		journal: journal,
		oracle:  oracle,
		opts:    opts,
		log:     log.With().Str("account", id).Logger(),
	}
	account, err := s.replay(ctx)
	if err != nil {
		return nil, err
	}
	s.account = account
	s.log.Debug().Int("transactions", len(account.Transactions())).Stringer("cash", account.Cash()).Msg("account loaded")
	return s, nil
}

// replay rebuilds the account from the journal.
func (s *Session) replay(ctx context.Context) (*papertrade.Account, error) {
	txs, err := s.journal.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load account %q: %w", s.id, err)
	}
	account, err := papertrade.Replay(s.id, txs, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("could not replay account %q: %w", s.id, err)
	}
	return account, nil
}

// Account returns the current account, for read operations.
func (s *Session) Account() *papertrade.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Oracle returns the price oracle used for trades and valuations.
func (s *Session) Oracle() papertrade.PriceOracle { return s.oracle }

// Close closes the journal.
func (s *Session) Close() error { return s.journal.Close() }

// Deposit adds amount to the account cash.
func (s *Session) Deposit(ctx context.Context, amount papertrade.Money) error {
	return s.mutate(ctx, func(a *papertrade.Account) error { return a.Deposit(amount) })
}

// Withdraw removes amount from the account cash.
func (s *Session) Withdraw(ctx context.Context, amount papertrade.Money) error {
	return s.mutate(ctx, func(a *papertrade.Account) error { return a.Withdraw(amount) })
}

// Buy purchases quantity shares of symbol at the oracle price.
func (s *Session) Buy(ctx context.Context, symbol string, quantity papertrade.Quantity) error {
	return s.mutate(ctx, func(a *papertrade.Account) error { return a.Buy(symbol, quantity, s.oracle) })
}

// Sell sells quantity shares of symbol at the oracle price.
func (s *Session) Sell(ctx context.Context, symbol string, quantity papertrade.Quantity) error {
	return s.mutate(ctx, func(a *papertrade.Account) error { return a.Sell(symbol, quantity, s.oracle) })
}

// Valuation prices the account with the session oracle.
func (s *Session) Valuation() papertrade.Valuation {
	return s.Account().Valuation(s.oracle)
}

// Gains returns the realized gains of the account.
func (s *Session) Gains() papertrade.Gains {
	return papertrade.RealizedGains(s.Account().Transactions())
}

// mutate runs op on the account then persists the transaction it committed.
func (s *Session) mutate(ctx context.Context, op func(*papertrade.Account) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writer.Lock()
	defer s.writer.Unlock()
	if s.failed != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.failed)
	}

	account := s.Account()
	history := account.Transactions()
	before := len(history)
	if err := op(account); err != nil {
		s.log.Info().Err(err).Msg("operation rejected")
		return err
	}
	tx, ok := account.LastTransaction()
	if !ok || len(account.Transactions()) != before+1 {
		return errors.New("operation did not record a transaction")
	}

	if err := s.journal.Append(ctx, tx); err != nil {
		s.log.Error().Err(err).Str("kind", string(tx.Kind)).Msg("could not persist transaction, rebuilding account")
		err = fmt.Errorf("could not persist %s: %w", tx.Kind, err)
		rebuilt, rerr := s.replay(context.WithoutCancel(ctx))
		if rerr != nil {
			s.failed = errors.Join(err, rerr)
			s.log.Error().Err(rerr).Msg("could not rebuild account, session unavailable")
			if rebuilt, rerr = papertrade.Replay(s.id, history, s.opts...); rerr != nil {
				s.failed = errors.Join(s.failed, rerr)
				rebuilt = papertrade.NewAccount(s.id, s.opts...)
			}
			s.mu.Lock()
			s.account = rebuilt
			s.mu.Unlock()
			return s.failed
		}
		s.mu.Lock()
		s.account = rebuilt
		s.mu.Unlock()
		return err
	}

	event := s.log.Info().Str("kind", string(tx.Kind)).Stringer("amount", tx.Amount)
	if tx.Kind.IsTrade() {
		event = event.Str("symbol", tx.Symbol).Int64("quantity", int64(tx.Quantity)).Stringer("price", tx.Price)
	}
	event.Stringer("cash", account.Cash()).Msg("transaction recorded")
	return nil
}
