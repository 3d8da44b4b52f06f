package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/papertrade"
	"github.com/rs/zerolog"
)

// DefaultPath is the jsonpath expression used when none is configured.
const DefaultPath = "$.price"

// HTTP fetches prices from a JSON web service.
//
// The request URL is built from a template where "{symbol}" is replaced by the
// escaped symbol, e.g. "https://quotes.example.com/v1/{symbol}". The price is
// extracted from the response with a jsonpath expression; it can be a JSON
// number or a numeric string.
type HTTP struct {
	url    string
	path   string
	client *http.Client
	log    zerolog.Logger
}

// NewHTTP creates an HTTP oracle. An empty path means DefaultPath.
func NewHTTP(urlTemplate, path string, log zerolog.Logger) (*HTTP, error) {
	if !strings.Contains(urlTemplate, "{symbol}") {
		return nil, fmt.Errorf("quote URL %q has no {symbol} placeholder", urlTemplate)
	}
	if path == "" {
		path = DefaultPath
	}
	return &HTTP{
		url:    urlTemplate,
		path:   path,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("component", "quote").Logger(),
	}, nil
}

// Price fetches the current price of symbol.
func (h *HTTP) Price(symbol string) (papertrade.Money, error) {
	addr := strings.ReplaceAll(h.url, "{symbol}", url.PathEscape(symbol))

	var jobj any
	if err := jwget(h.client, addr, &jobj); err != nil {
		return papertrade.Money{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	price, err := extract(h.path, jobj)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	h.log.Debug().Str("symbol", symbol).Stringer("price", price).Msg("quote fetched")
	return price, nil
}

// extract reads a price at path in a decoded JSON document.
func extract(path string, jobj any) (papertrade.Money, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath returns either a single answer or a list of answers, keep the first one.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return papertrade.Money{}, fmt.Errorf("%q: %w", path, ErrNoQuote)
		}
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case json.Number:
		return papertrade.ParseMoney(v.String())
	case string:
		return papertrade.ParseMoney(strings.TrimSpace(v))
	case float64:
		return papertrade.M(v), nil
	case nil:
		return papertrade.Money{}, fmt.Errorf("%q: %w", path, ErrNoQuote)
	default:
		return papertrade.Money{}, fmt.Errorf("%q: not a price: %v", path, jval)
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
// Numbers are kept as json.Number so that prices are read exactly.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoQuote
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return dec.Decode(data)
}
