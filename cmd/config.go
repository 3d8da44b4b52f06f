package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/etnz/papertrade/store"
	"github.com/joho/godotenv"
)

// Config holds the CLI configuration, read from the environment and
// overridden by the global flags.
type Config struct {
	DataDir   string        `env:"PAPERTRADE_DATA_DIR" envDefault:".papertrade"`
	Account   string        `env:"PAPERTRADE_ACCOUNT" envDefault:"default"`
	Store     string        `env:"PAPERTRADE_STORE" envDefault:"jsonl"`
	QuoteURL  string        `env:"PAPERTRADE_QUOTE_URL"`
	QuotePath string        `env:"PAPERTRADE_QUOTE_PATH" envDefault:"$.price"`
	QuoteTTL  time.Duration `env:"PAPERTRADE_QUOTE_TTL" envDefault:"60s"`
	Addr      string        `env:"PAPERTRADE_ADDR" envDefault:":8080"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool          `env:"LOG_PRETTY" envDefault:"true"`
}

// LoadConfig reads configuration from environment variables, after loading
// the .env file of the working directory if it exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("PAPERTRADE_DATA_DIR is required")
	}
	if c.Account == "" {
		return fmt.Errorf("PAPERTRADE_ACCOUNT is required")
	}
	if _, err := store.ParseBackend(c.Store); err != nil {
		return err
	}
	if c.QuoteTTL < 0 {
		return fmt.Errorf("PAPERTRADE_QUOTE_TTL cannot be negative, got %v", c.QuoteTTL)
	}
	return nil
}
