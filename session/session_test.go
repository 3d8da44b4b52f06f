package session

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/quote"
	"github.com/etnz/papertrade/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSession(t *testing.T, journal store.Journal) *Session {
	t.Helper()
	s, err := Open(context.Background(), "alice", journal, quote.Demo(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestSession_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	journal, err := store.NewFile(dir, "alice", zerolog.Nop())
	require.NoError(t, err)

	s := openSession(t, journal)
	require.NoError(t, s.Deposit(ctx, papertrade.M(1000)))
	require.NoError(t, s.Buy(ctx, "AAPL", 4))
	require.NoError(t, s.Sell(ctx, "AAPL", 1))
	require.NoError(t, s.Withdraw(ctx, papertrade.M(100)))
	assert.ErrorIs(t, s.Buy(ctx, "XYZ", 1), papertrade.ErrUnknownSymbol)
	assert.ErrorIs(t, s.Withdraw(ctx, papertrade.M(5000)), papertrade.ErrInsufficientFunds)
	require.NoError(t, s.Close())

	reopened := openSession(t, journal)
	a := reopened.Account()
	assert.True(t, a.Cash().Equal(papertrade.M(450)), "cash %v", a.Cash())
	assert.Equal(t, map[string]papertrade.Quantity{"AAPL": 3}, a.Holdings())
	assert.Len(t, a.Transactions(), 4)

	v := reopened.Valuation()
	assert.True(t, v.Total.Equal(papertrade.M(900)), "total %v", v.Total)
	assert.True(t, v.ProfitLoss.Equal(papertrade.M(-100)), "profit/loss %v", v.ProfitLoss)
	assert.True(t, reopened.Gains().Realized.IsZero())
}

// flakyJournal wraps a journal and fails appends or loads on demand.
type flakyJournal struct {
	store.Journal
	fail     bool
	failLoad bool
}

func (j *flakyJournal) Load(ctx context.Context) ([]papertrade.Transaction, error) {
	if j.failLoad {
		return nil, errors.New("journal unreadable")
	}
	return j.Journal.Load(ctx)
}

func (j *flakyJournal) Append(ctx context.Context, tx papertrade.Transaction) error {
	if j.fail {
		return errors.New("disk full")
	}
	return j.Journal.Append(ctx, tx)
}

func TestSession_PersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	inner, err := store.NewFile(t.TempDir(), "alice", zerolog.Nop())
	require.NoError(t, err)
	journal := &flakyJournal{Journal: inner}

	s := openSession(t, journal)
	require.NoError(t, s.Deposit(ctx, papertrade.M(1000)))

	journal.fail = true
	err = s.Buy(ctx, "TSLA", 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	a := s.Account()
	assert.True(t, a.Cash().Equal(papertrade.M(1000)), "cash %v", a.Cash())
	assert.Empty(t, a.Holdings())
	assert.Len(t, a.Transactions(), 1)

	journal.fail = false
	require.NoError(t, s.Buy(ctx, "TSLA", 2))
	assert.True(t, s.Account().Cash().Equal(papertrade.M(500)))
}

func TestSession_RebuildFailureRestoresPreviousState(t *testing.T) {
	ctx := context.Background()
	inner, err := store.NewFile(t.TempDir(), "alice", zerolog.Nop())
	require.NoError(t, err)
	journal := &flakyJournal{Journal: inner}

	s := openSession(t, journal)
	require.NoError(t, s.Deposit(ctx, papertrade.M(1000)))

	journal.fail, journal.failLoad = true, true
	err = s.Buy(ctx, "TSLA", 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, err, "journal unreadable")

	a := s.Account()
	assert.True(t, a.Cash().Equal(papertrade.M(1000)), "cash %v", a.Cash())
	assert.Empty(t, a.Holdings())
	assert.Len(t, a.Transactions(), 1)

	journal.fail, journal.failLoad = false, false
	assert.ErrorIs(t, s.Deposit(ctx, papertrade.M(1)), ErrUnavailable)
	assert.Len(t, s.Account().Transactions(), 1)

	reopened := openSession(t, journal)
	assert.True(t, reopened.Account().Cash().Equal(papertrade.M(1000)))
	require.NoError(t, reopened.Buy(ctx, "TSLA", 2))
}

func TestSession_CanceledContext(t *testing.T) {
	inner, err := store.NewFile(t.TempDir(), "alice", zerolog.Nop())
	require.NoError(t, err)
	s := openSession(t, inner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Deposit(ctx, papertrade.M(10)), context.Canceled)
	assert.Empty(t, s.Account().Transactions())
}

func TestOpen_RejectsInconsistentJournal(t *testing.T) {
	ctx := context.Background()
	journal, err := store.NewFile(t.TempDir(), "alice", zerolog.Nop())
	require.NoError(t, err)

	a := papertrade.NewAccount("alice")
	require.NoError(t, a.Deposit(papertrade.M(100)))
	require.NoError(t, a.Withdraw(papertrade.M(100)))
	txs := a.Transactions()
	// Record the withdrawal twice: the second one overdraws the account.
	require.NoError(t, journal.Append(ctx, txs[0]))
	require.NoError(t, journal.Append(ctx, txs[1]))
	require.NoError(t, journal.Append(ctx, txs[1]))

	_, err = Open(ctx, "alice", journal, quote.Demo(), zerolog.Nop())
	assert.ErrorIs(t, err, papertrade.ErrInsufficientFunds)
}
