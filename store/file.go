package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/papertrade"
	"github.com/rs/zerolog"
)

// File is a Journal kept in a JSONL file, one transaction per line.
type File struct {
	path string
	log  zerolog.Logger
}

// NewFile returns the journal of account stored as <dir>/<account>.jsonl.
// The file is created on the first Append.
func NewFile(dir, account string, log zerolog.Logger) (*File, error) {
	if err := checkAccount(account); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, account+".jsonl")
	return &File{
		path: path,
		log:  log.With().Str("component", "store").Str("file", path).Logger(),
	}, nil
}

// Path returns the journal file path.
func (f *File) Path() string { return f.path }

// Load reads the whole journal. A missing file is an empty journal.
func (f *File) Load(ctx context.Context) ([]papertrade.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Debug().Msg("journal does not exist yet")
		return []papertrade.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening journal %q: %w", f.path, err)
	}
	defer r.Close()

	txs, err := papertrade.DecodeTransactions(r)
	if err != nil {
		return nil, fmt.Errorf("error reading journal %q: %w", f.path, err)
	}
	f.log.Debug().Int("transactions", len(txs)).Msg("journal loaded")
	return txs, nil
}

// Append writes tx at the end of the journal.
func (f *File) Append(ctx context.Context, tx papertrade.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Open the file in append mode, creating it if it doesn't exist.
	w, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening journal %q: %w", f.path, err)
	}
	if err := papertrade.EncodeTransaction(w, tx); err != nil {
		w.Close()
		return fmt.Errorf("error writing to journal %q: %w", f.path, err)
	}
	return w.Close()
}

// Close is a no-op, the file is only open during Load and Append.
func (f *File) Close() error { return nil }
