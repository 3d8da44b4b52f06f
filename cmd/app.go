// Package cmd implements the CLI application to trade on a paper account.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/logger"
	"github.com/etnz/papertrade/quote"
	"github.com/etnz/papertrade/session"
	"github.com/etnz/papertrade/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var config = &Config{DataDir: ".papertrade", Account: "default", Store: string(store.BackendJSONL), QuotePath: quote.DefaultPath}

// stdout receives the reports.
var stdout io.Writer = os.Stdout

// Commands returns every subcommand, with its group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"account": {
			&openCmd{},
			&depositCmd{},
			&withdrawCmd{},
		},
		"trading": {
			&buyCmd{},
			&sellCmd{},
		},
		"reports": {
			&holdingsCmd{},
			&summaryCmd{},
			&pnlCmd{},
			&txCmd{},
			&gainsCmd{},
		},
		"server": {
			&serveCmd{},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// SetFlags declares the global flags on f, with defaults taken from cfg.
// The parsed values are used by every subcommand.
func SetFlags(f *flag.FlagSet, cfg *Config) {
	config = cfg
	f.StringVar(&cfg.Account, "account", cfg.Account, "Account to operate on")
	f.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the account journals")
	f.StringVar(&cfg.Store, "store", cfg.Store, "Journal backend: jsonl or sqlite")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
}

// newLogger creates the logger configured for this run.
func newLogger() zerolog.Logger {
	return logger.New(logger.Config{Level: config.LogLevel, Pretty: config.LogPretty})
}

// newOracle returns the configured price oracle: a cached web service when a
// quote URL is set, the demo prices otherwise.
func newOracle(log zerolog.Logger) (papertrade.PriceOracle, error) {
	if config.QuoteURL == "" {
		return quote.Demo(), nil
	}
	h, err := quote.NewHTTP(config.QuoteURL, config.QuotePath, log)
	if err != nil {
		return nil, err
	}
	if config.QuoteTTL == 0 {
		return h, nil
	}
	c, err := quote.NewCached(h, config.QuoteTTL, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// openSession opens the configured account.
func openSession(ctx context.Context, log zerolog.Logger) (*session.Session, error) {
	backend, err := store.ParseBackend(config.Store)
	if err != nil {
		return nil, err
	}
	journal, err := store.Open(ctx, backend, config.DataDir, config.Account, log)
	if err != nil {
		return nil, err
	}
	oracle, err := newOracle(log)
	if err != nil {
		journal.Close()
		return nil, err
	}
	s, err := session.Open(ctx, config.Account, journal, oracle, log)
	if err != nil {
		journal.Close()
		return nil, err
	}
	return s, nil
}

// withSession runs f on the configured account, reporting errors on stderr.
func withSession(ctx context.Context, f func(*session.Session) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := openSession(ctx, newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening account %q: %v\n", config.Account, err)
		return subcommands.ExitFailure
	}
	defer s.Close()
	return f(s)
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
