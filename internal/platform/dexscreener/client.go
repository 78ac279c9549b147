// Package dexscreener is the REST client for the public DexScreener pairs
// API, which provides per-chain token pair listings with price, liquidity,
// and volume data.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paperdex/paperdex/internal/domain"
)

// Client fetches pair snapshots for a single chain. It implements
// domain.MarketFeed.
type Client struct {
	baseURL    string
	chain      string
	httpClient *http.Client
}

// NewClient creates a DexScreener client.
//
// baseURL is the API root, e.g. "https://api.dexscreener.com"; chain is the
// chain slug, e.g. "solana". The timeout bounds every fetch.
func NewClient(baseURL, chain string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		chain:   chain,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSnapshot returns the current pair listings for the configured chain.
// Entries without a usable price or identifier are skipped; if none remain,
// the snapshot counts as empty.
func (c *Client) FetchSnapshot(ctx context.Context) ([]domain.Pair, error) {
	path := "/latest/dex/pairs/" + url.PathEscape(c.chain)

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: get pairs: %w: %w", domain.ErrFeedUnavailable, err)
	}

	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dexscreener: decode pairs: %w: %w", domain.ErrFeedUnavailable, err)
	}

	pairs := make([]domain.Pair, 0, len(resp.Pairs))
	for i := range resp.Pairs {
		pair, convErr := resp.Pairs[i].ToDomainPair()
		if convErr != nil {
			continue
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("dexscreener: chain %s: %w", c.chain, domain.ErrEmptySnapshot)
	}
	return pairs, nil
}

// doGet sends an unauthenticated GET request to the DexScreener API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus converts non-2xx responses into errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, string(body))
	}
	return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
}
