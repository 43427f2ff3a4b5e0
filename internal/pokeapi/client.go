// Package pokeapi is the only code that talks to the remote data API.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Makepad-fr/pokedex/internal/config"
)

// Client issues GET requests against a fixed base URL.
// No retries, no timeout and no caching: callers cancel through ctx.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	log       *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("pokeapi") }
}

// New builds a client from the api section of the config.
func New(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{},
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if cfg.Breaker.Enabled {
		c.breaker = c.newBreaker(cfg.Breaker)
	}
	return c
}

func (c *Client) newBreaker(bc config.BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pokeapi",
		MaxRequests: 1,
		Timeout:     bc.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// A missing record or a cancelled lookup says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			k, _ := KindOf(err)
			return k == KindNotFound || k == KindDecode
		},
	})
}

// BaseURL returns the base every relative reference is composed against.
func (c *Client) BaseURL() string { return c.baseURL }

// Resolve turns a relative reference into an absolute URL. Absolute URLs
// pass through.
func (c *Client) Resolve(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// FetchJSON GETs ref and decodes the body into v.
func (c *Client) FetchJSON(ctx context.Context, ref string, v any) error {
	u := c.Resolve(ref)
	if c.breaker == nil {
		return c.get(ctx, u, v)
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.get(ctx, u, v)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: KindUnavailable, URL: u, Err: err}
	}
	return err
}

func (c *Client) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("GET", zap.String("url", u))
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, URL: u, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Kind: KindNotFound, URL: u, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Kind: KindStatus, URL: u, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return &Error{Kind: KindNetwork, URL: u, Err: ctx.Err()}
		}
		return &Error{Kind: KindDecode, URL: u, Err: err}
	}
	return nil
}

// Pokemon fetches a record by numeric id or lowercase name.
func (c *Client) Pokemon(ctx context.Context, idOrName string) (*Pokemon, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, &Error{Kind: KindNotFound, URL: c.Resolve("pokemon/")}
	}
	var p Pokemon
	if err := c.FetchJSON(ctx, "pokemon/"+url.PathEscape(key), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Species fetches a species supplement. ref is the record's species URL
// or an id or name.
func (c *Client) Species(ctx context.Context, ref string) (*Species, error) {
	var s Species
	if err := c.FetchJSON(ctx, speciesRef(ref), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EvolutionChain fetches the chain at ref (normally an absolute URL taken
// from a species payload).
func (c *Client) EvolutionChain(ctx context.Context, ref string) (*EvolutionChain, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, &Error{Kind: KindNotFound, URL: c.Resolve("evolution-chain/"), Err: fmt.Errorf("empty reference")}
	}
	var ch EvolutionChain
	if err := c.FetchJSON(ctx, ref, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func speciesRef(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return "pokemon-species/" + url.PathEscape(strings.ToLower(strings.TrimSpace(ref)))
}
