// Package faucet requests testnet funds for a publisher account.
package faucet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/browser"
)

const (
	// DefaultMintURL is the testnet faucet endpoint.
	DefaultMintURL = "https://faucet.testnet.aptoslabs.com"
	// DefaultWebURL is the manual web faucet, used as fallback when the
	// mint endpoint rejects the request (e.g. captcha-gated).
	DefaultWebURL = "https://aptos.dev/network/faucet"
	// DefaultAmount is the default funding amount in octas (1 APT).
	DefaultAmount = 100_000_000

	defaultTimeout = 30 * time.Second
)

// Client talks to the faucet service.
type Client struct {
	mintURL    string
	webURL     string
	httpClient *http.Client
	logger     *slog.Logger
	openURL    func(string) error
}

// NewClient creates a faucet client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		mintURL: DefaultMintURL,
		webURL:  DefaultWebURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:  slog.Default(),
		openURL: browser.OpenURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures the client.
type Option func(*Client)

// WithMintURL sets a custom faucet mint endpoint.
func WithMintURL(u string) Option {
	return func(c *Client) {
		c.mintURL = u
	}
}

// WithWebURL sets a custom manual faucet page.
func WithWebURL(u string) Option {
	return func(c *Client) {
		c.webURL = u
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// withOpenURL substitutes the browser launcher in tests.
func withOpenURL(fn func(string) error) Option {
	return func(c *Client) {
		c.openURL = fn
	}
}

// Fund requests amount octas for address from the mint endpoint. The
// faucet's response schema is not guaranteed; anything other than a 2xx
// status is a failure and the body is surfaced verbatim.
func (c *Client) Fund(ctx context.Context, address string, amount uint64) error {
	q := url.Values{}
	q.Set("address", address)
	q.Set("amount", fmt.Sprintf("%d", amount))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mintURL+"/mint?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "coractl/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("faucet request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read faucet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("faucet returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Info("faucet mint accepted",
		slog.String("address", address),
		slog.Uint64("amount", amount))
	return nil
}

// WebFaucetURL returns the manual funding page pre-filled with address.
func (c *Client) WebFaucetURL(address string) string {
	q := url.Values{}
	q.Set("address", address)
	return c.webURL + "?" + q.Encode()
}

// OpenWebFaucet opens the manual funding page in the default browser.
// A launch failure is not fatal: the URL is returned either way so the
// caller can print it for the operator.
func (c *Client) OpenWebFaucet(address string) (string, error) {
	u := c.WebFaucetURL(address)
	if err := c.openURL(u); err != nil {
		c.logger.Warn("could not open browser", slog.String("error", err.Error()))
		return u, err
	}
	return u, nil
}
