// Package node provides a lightweight HTTP client for the Aptos fullnode
// REST API.
package node

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the testnet fullnode endpoint.
	DefaultBaseURL = "https://fullnode.testnet.aptoslabs.com/v1"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// coinStoreResource is the resource type holding the APT balance.
	coinStoreResource = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"
)

// Client is a fullnode API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new fullnode client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom fullnode URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIKey sets a bearer API key for gated fullnode providers.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// APIError represents a fullnode error response.
type APIError struct {
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
	}
	return e.Message
}

// IsNotFound returns true if this is a 404 error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "coractl/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return &APIError{
				Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// LedgerInfo returns the chain's current ledger state. Used as a
// reachability probe.
func (c *Client) LedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	var info LedgerInfo
	if err := c.get(ctx, "/", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Account returns on-chain account data, or nil if the account does not
// exist yet (it has never been funded).
func (c *Client) Account(ctx context.Context, address string) (*AccountData, error) {
	var acct AccountData
	err := c.get(ctx, "/accounts/"+address, &acct)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return &acct, nil
}

// AccountResources returns all resources held by an account.
func (c *Client) AccountResources(ctx context.Context, address string) ([]Resource, error) {
	var resources []Resource
	if err := c.get(ctx, "/accounts/"+address+"/resources", &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// AccountResource returns one typed resource, or nil if the account does
// not hold it.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (*Resource, error) {
	var resource Resource
	err := c.get(ctx, "/accounts/"+address+"/resource/"+resourceType, &resource)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return &resource, nil
}

// AccountBalance returns the account's APT balance in octas. A missing
// account or coin store reads as zero.
func (c *Client) AccountBalance(ctx context.Context, address string) (uint64, error) {
	resource, err := c.AccountResource(ctx, address, coinStoreResource)
	if err != nil {
		return 0, err
	}
	if resource == nil {
		return 0, nil
	}

	var store coinStore
	if err := json.Unmarshal(resource.Data, &store); err != nil {
		return 0, fmt.Errorf("failed to parse coin store: %w", err)
	}

	balance, err := strconv.ParseUint(store.Coin.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance %q: %w", store.Coin.Value, err)
	}
	return balance, nil
}

// AccountModule returns a published module's metadata, or nil if the
// module is not published at the address.
func (c *Client) AccountModule(ctx context.Context, address, name string) (*MoveModule, error) {
	var module MoveModule
	err := c.get(ctx, "/accounts/"+address+"/module/"+name, &module)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return &module, nil
}
