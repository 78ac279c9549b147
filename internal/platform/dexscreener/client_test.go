package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdex/paperdex/internal/domain"
)

const pairsBody = `{
	"schemaVersion": "1.0.0",
	"pairs": [
		{
			"chainId": "solana",
			"dexId": "raydium",
			"url": "https://dexscreener.com/solana/abc",
			"pairAddress": "abc123",
			"baseToken": {"address": "tok1", "name": "Moonrock", "symbol": "MOON"},
			"quoteToken": {"address": "sol", "name": "Solana", "symbol": "SOL"},
			"priceUsd": "0.000012",
			"liquidity": {"usd": 12000, "base": 1, "quote": 2},
			"volume": {"h24": 3000, "h6": 800, "h1": 100, "m5": 5}
		},
		{
			"chainId": "solana",
			"dexId": "orca",
			"url": "",
			"pairAddress": "",
			"baseToken": {"address": "tok2", "name": "Bluechip", "symbol": "BLU"},
			"quoteToken": {"address": "usdc", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "2.50",
			"liquidity": {"usd": 500000},
			"volume": {"h24": 250000}
		},
		{
			"chainId": "solana",
			"dexId": "orca",
			"pairAddress": "broken",
			"baseToken": {"name": "Broken", "symbol": "BRK"},
			"priceUsd": "not-a-number",
			"liquidity": {"usd": 100},
			"volume": {"h24": 10}
		}
	]
}`

func TestFetchSnapshot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/pairs/solana", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pairsBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "solana", 5*time.Second)
	pairs, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	// The unparsable-price entry is skipped, not fatal.
	require.Len(t, pairs, 2)

	assert.Equal(t, "abc123", pairs[0].ID)
	assert.Equal(t, "MOON", pairs[0].Symbol)
	assert.InDelta(t, 0.000012, pairs[0].PriceUSD, 1e-18)
	assert.InDelta(t, 12000, pairs[0].LiquidityUSD, 1e-9)
	assert.InDelta(t, 3000, pairs[0].Volume24hUSD, 1e-9)

	// Identifier falls back to the base token address when the pair
	// address and URL are empty.
	assert.Equal(t, "tok2", pairs[1].ID)
}

func TestFetchSnapshot_EmptyPairs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schemaVersion": "1.0.0", "pairs": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "solana", 5*time.Second)
	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "solana", 5*time.Second)
	_, err := c.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchSnapshot_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "solana", 5*time.Second)
	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestFetchSnapshot_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "solana", 5*time.Second)
	_, err := c.FetchSnapshot(ctx)
	assert.Error(t, err)
}

func TestIdentifier_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pair APIPair
		want string
	}{
		{"pair address wins", APIPair{PairAddress: "pa", URL: "u", BaseToken: APIToken{Address: "ba"}}, "pa"},
		{"url second", APIPair{URL: "u", BaseToken: APIToken{Address: "ba"}}, "u"},
		{"base token last", APIPair{BaseToken: APIToken{Address: "ba"}}, "ba"},
		{"all empty", APIPair{}, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.pair.Identifier())
		})
	}
}

func TestToDomainPair_RejectsMissingIdentifier(t *testing.T) {
	t.Parallel()

	p := APIPair{PriceUSD: "1.0", Liquidity: APILiquidity{USD: 10}, Volume: APIVolume{H24: 5}}
	_, err := p.ToDomainPair()
	assert.Error(t, err)
}
