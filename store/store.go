// Package store persists account transaction logs.
//
// A Journal is the append-only log of one account. The account state is never
// stored: it is rebuilt by replaying the journal.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/etnz/papertrade"
	"github.com/rs/zerolog"
)

// Journal is the persistent transaction log of one account.
type Journal interface {
	// Load returns every transaction in insertion order.
	Load(ctx context.Context) ([]papertrade.Transaction, error)
	// Append adds one transaction at the end of the log.
	Append(ctx context.Context, tx papertrade.Transaction) error
	Close() error
}

// Backend names a Journal implementation.
type Backend string

const (
	BackendJSONL  Backend = "jsonl"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendJSONL, BackendSQLite:
		return b, nil
	case "":
		return BackendJSONL, nil
	default:
		return "", fmt.Errorf("unknown store %q, want %q or %q", s, BackendJSONL, BackendSQLite)
	}
}

// DatabaseFile is the name of the SQLite database in the data directory.
const DatabaseFile = "papertrade.db"

// Open opens the journal of account in dir with the given backend.
func Open(ctx context.Context, backend Backend, dir, account string, log zerolog.Logger) (Journal, error) {
	if err := checkAccount(account); err != nil {
		return nil, err
	}
	switch backend {
	case BackendJSONL, "":
		return NewFile(dir, account, log)
	case BackendSQLite:
		return NewSQLite(ctx, filepath.Join(dir, DatabaseFile), account, log)
	default:
		return nil, fmt.Errorf("unknown store %q", backend)
	}
}

// checkAccount rejects account names that cannot be used as a file name.
func checkAccount(account string) error {
	if account == "" || account == "." || account == ".." || strings.ContainsAny(account, `/\`) {
		return fmt.Errorf("invalid account name %q", account)
	}
	return nil
}
