// Package staking looks up the staking accounts linked to a wallet address.
package staking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultEndpoint       = "https://apps.paw.digital/staking/stake_addresses.php"
	defaultRequestTimeout = 15 * time.Second
	defaultMaxRetries     = 3
)

// ClientConfig customizes Client behavior. Zero values select defaults.
type ClientConfig struct {
	Endpoint     string
	HTTPClient   *http.Client
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

type Client struct {
	endpoint string
	http     *retryablehttp.Client
	logger   *slog.Logger
}

type stakeResponse struct {
	StakeAccounts []string `json:"stake_accounts"`
}

func NewClient(cfg ClientConfig) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	} else {
		rc.HTTPClient.Timeout = defaultRequestTimeout
	}
	rc.RetryMax = defaultMaxRetries
	if cfg.MaxRetries > 0 {
		rc.RetryMax = cfg.MaxRetries
	}
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.Logger = logger

	return &Client{
		endpoint: endpoint,
		http:     rc,
		logger:   logger,
	}
}

// LookupURL is the endpoint with the escaped paw_address query set. Existing
// query parameters on the endpoint are kept.
func (c *Client) LookupURL(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("address is required")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse staking endpoint: %w", err)
	}
	q := u.Query()
	q.Set("paw_address", address)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FindStakingAddresses returns the staking accounts registered for address.
// An empty response body means there are none.
func (c *Client) FindStakingAddresses(ctx context.Context, address string) ([]string, error) {
	lookup, err := c.LookupURL(address)
	if err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return nil, fmt.Errorf("create staking request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting staking accounts", "address", address)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request staking accounts: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read staking response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		trimmed := strings.TrimSpace(string(body))
		if len(trimmed) > 256 {
			trimmed = trimmed[:256]
		}

		return nil, fmt.Errorf("request staking accounts: unexpected status %d: %s", resp.StatusCode, trimmed)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []string{}, nil
	}
	var payload stakeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode staking response: %w", err)
	}
	if payload.StakeAccounts == nil {
		return []string{}, nil
	}
	c.logger.Debug("received staking accounts", "address", address, "count", len(payload.StakeAccounts))

	return payload.StakeAccounts, nil
}
