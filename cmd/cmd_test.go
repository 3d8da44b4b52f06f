package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the CLI at a fresh data directory and captures its output.
func setup(t *testing.T, backend store.Backend) *bytes.Buffer {
	t.Helper()
	prevConfig, prevStdout := config, stdout
	t.Cleanup(func() { config, stdout = prevConfig, prevStdout })

	config = &Config{
		DataDir:   t.TempDir(),
		Account:   "alice",
		Store:     string(backend),
		QuotePath: "$.price",
		LogLevel:  "off",
	}
	var out bytes.Buffer
	stdout = &out
	return &out
}

// run executes one CLI invocation, e.g. run(t, "buy", "-s", "AAPL", "-q", "2").
func run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	top := flag.NewFlagSet("pt", flag.ContinueOnError)
	commander := subcommands.NewCommander(top, "pt")
	Register(commander)
	require.NoError(t, top.Parse(args))
	return commander.Execute(context.Background())
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env file
	t.Setenv("PAPERTRADE_ACCOUNT", "bob")
	t.Setenv("PAPERTRADE_STORE", "sqlite")
	t.Setenv("PAPERTRADE_QUOTE_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Account)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, ".papertrade", cfg.DataDir)
	assert.Equal(t, "$.price", cfg.QuotePath)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "5m0s", cfg.QuoteTTL.String())
	assert.True(t, cfg.LogPretty)

	t.Setenv("PAPERTRADE_STORE", "csv")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PAPERTRADE_ACCOUNT=carol\nLOG_LEVEL=debug\n"), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Account)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestCLI_TradingSession(t *testing.T) {
	for _, backend := range []store.Backend{store.BackendJSONL, store.BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			out := setup(t, backend)

			require.Equal(t, subcommands.ExitSuccess, run(t, "open", "-deposit", "1000"))
			assert.Contains(t, out.String(), "$1,000.00")
			assert.Equal(t, subcommands.ExitFailure, run(t, "open"), "an account opens only once")

			require.Equal(t, subcommands.ExitSuccess, run(t, "buy", "-s", "aapl", "-q", "4"))
			assert.Contains(t, out.String(), "Bought 4 AAPL at $150.00")
			require.Equal(t, subcommands.ExitSuccess, run(t, "sell", "-s", "AAPL", "-q", "1"))
			require.Equal(t, subcommands.ExitSuccess, run(t, "withdraw", "-a", "100"))

			assert.Equal(t, subcommands.ExitFailure, run(t, "buy", "-s", "XYZ", "-q", "1"))
			assert.Equal(t, subcommands.ExitFailure, run(t, "sell", "-s", "AAPL", "-q", "10"))
			assert.Equal(t, subcommands.ExitFailure, run(t, "withdraw", "-a", "1e6"))
			assert.Equal(t, subcommands.ExitUsageError, run(t, "deposit", "-a", "lots"))
			assert.Equal(t, subcommands.ExitUsageError, run(t, "buy", "-q", "1"))

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, "pnl"))
			assert.Equal(t, "-100.00\n", out.String())

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, "holdings"))
			assert.Contains(t, out.String(), "AAPL")

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, "summary"))
			assert.Contains(t, out.String(), "$900.00")

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, "tx", "-tail", "2"))
			assert.Contains(t, out.String(), "Withdrew $100.00")
			assert.NotContains(t, out.String(), "Deposited")
			assert.Equal(t, subcommands.ExitUsageError, run(t, "tx", "-head", "1", "-tail", "1"))

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, "gains"))
			assert.Contains(t, out.String(), "AAPL")

			// The journal replays to the same account.
			j, err := store.Open(context.Background(), backend, config.DataDir, "alice", zerolog.Nop())
			require.NoError(t, err)
			defer j.Close()
			txs, err := j.Load(context.Background())
			require.NoError(t, err)
			a, err := papertrade.Replay("alice", txs)
			require.NoError(t, err)
			assert.True(t, a.Cash().Equal(papertrade.M(450)), "cash %v", a.Cash())
			assert.Equal(t, map[string]papertrade.Quantity{"AAPL": 3}, a.Holdings())
		})
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"open", "deposit", "withdraw", "buy", "sell", "holdings", "summary", "pnl", "tx", "gains", "serve"} {
		assert.Contains(t, c.Sub, name)
	}
	assert.Contains(t, c.Sub["buy"].Flags, "s")
	assert.Contains(t, c.Sub["buy"].Flags, "q")
	assert.Contains(t, c.Flags, "store")

	symbols := c.Sub["sell"].Flags["s"].Predict("")
	assert.True(t, strings.Contains(strings.Join(symbols, " "), "AAPL"), "symbols %v", symbols)
}
