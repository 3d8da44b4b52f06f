// Package quote provides price oracles for papertrade accounts.
//
// Fixed serves a static price table, HTTP fetches prices from a JSON web
// service, and Cached puts a TTL cache in front of any other oracle.
package quote

import (
	"errors"
)

// ErrNoQuote is returned by an oracle that has no price for a symbol.
var ErrNoQuote = errors.New("no quote")
