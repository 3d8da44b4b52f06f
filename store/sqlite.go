package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/papertrade"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	account  TEXT    NOT NULL,
	seq      INTEGER NOT NULL,
	time     TEXT    NOT NULL,
	kind     TEXT    NOT NULL,
	symbol   TEXT    NOT NULL DEFAULT '',
	quantity INTEGER NOT NULL DEFAULT 0,
	price    TEXT    NOT NULL DEFAULT '0',
	amount   TEXT    NOT NULL,
	PRIMARY KEY (account, seq)
);`

// SQLite is a Journal kept in a SQLite database shared by several accounts.
// Amounts are stored as decimal text so they are read back exactly.
type SQLite struct {
	db      *sql.DB
	account string
	log     zerolog.Logger
}

// NewSQLite opens (creating if needed) the database at path and returns the
// journal of account.
func NewSQLite(ctx context.Context, path, account string, log zerolog.Logger) (*SQLite, error) {
	if err := checkAccount(account); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLite{
		db:      db,
		account: account,
		log:     log.With().Str("component", "store").Str("account", account).Logger(),
	}, nil
}

// Load reads the account transactions in insertion order.
func (s *SQLite) Load(ctx context.Context) ([]papertrade.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, time, kind, symbol, quantity, price, amount FROM transactions WHERE account = ? ORDER BY seq`,
		s.account)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]papertrade.Transaction, 0)
	for rows.Next() {
		var (
			seq              int64
			at, kind, symbol string
			quantity         int64
			price, amount    string
		)
		if err := rows.Scan(&seq, &at, &kind, &symbol, &quantity, &price, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := decodeRow(at, kind, symbol, quantity, price, amount)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", seq, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	s.log.Debug().Int("transactions", len(txs)).Msg("journal loaded")
	return txs, nil
}

func decodeRow(at, kind, symbol string, quantity int64, price, amount string) (papertrade.Transaction, error) {
	var tx papertrade.Transaction
	var err error
	if tx.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return tx, fmt.Errorf("invalid time %q: %w", at, err)
	}
	if tx.Kind, err = papertrade.ParseKind(kind); err != nil {
		return tx, err
	}
	tx.Symbol = symbol
	tx.Quantity = papertrade.Quantity(quantity)
	if tx.Price, err = papertrade.ParseMoney(price); err != nil {
		return tx, err
	}
	if tx.Amount, err = papertrade.ParseMoney(amount); err != nil {
		return tx, err
	}
	return tx, tx.Validate()
}

// Append inserts tx after the last transaction of the account.
func (s *SQLite) Append(ctx context.Context, tx papertrade.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	var seq int64
	err = dbtx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE account = ?`, s.account).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence: %w", err)
	}
	_, err = dbtx.ExecContext(ctx,
		`INSERT INTO transactions (account, seq, time, kind, symbol, quantity, price, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.account, seq,
		tx.Time.UTC().Format(time.RFC3339Nano),
		string(tx.Kind),
		tx.Symbol,
		int64(tx.Quantity),
		tx.Price.Decimal().String(),
		tx.Amount.Decimal().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debug().Int64("seq", seq).Str("kind", string(tx.Kind)).Msg("transaction appended")
	return nil
}

// Accounts lists the accounts that have at least one transaction.
func (s *SQLite) Accounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT account FROM transactions ORDER BY account`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()
	var accounts []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
