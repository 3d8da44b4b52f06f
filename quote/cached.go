package quote

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/etnz/papertrade"
	"github.com/rs/zerolog"
)

// Cached serves prices from a TTL cache in front of another oracle.
// Failures are never cached.
type Cached struct {
	oracle papertrade.PriceOracle
	cache  *ristretto.Cache
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCached wraps oracle with a cache keeping prices for ttl.
func NewCached(oracle papertrade.PriceOracle, ttl time.Duration, log zerolog.Logger) (*Cached, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 12, // one unit per symbol
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create quote cache: %w", err)
	}
	return &Cached{oracle: oracle, cache: c, ttl: ttl, log: log.With().Str("component", "quote_cache").Logger()}, nil
}

// Price returns the cached price of symbol, or asks the wrapped oracle.
func (c *Cached) Price(symbol string) (papertrade.Money, error) {
	if v, ok := c.cache.Get(symbol); ok {
		return v.(papertrade.Money), nil
	}
	price, err := c.oracle.Price(symbol)
	if err != nil {
		return papertrade.Money{}, err
	}
	c.cache.SetWithTTL(symbol, price, 1, c.ttl)
	c.cache.Wait()
	c.log.Debug().Str("symbol", symbol).Dur("ttl", c.ttl).Msg("quote cached")
	return price, nil
}

// Close releases the cache.
func (c *Cached) Close() { c.cache.Close() }
