package dexscreener

import (
	"strconv"

	"github.com/paperdex/paperdex/internal/domain"
)

// APIResponse is the envelope returned by the DexScreener pairs endpoint.
type APIResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []APIPair `json:"pairs"`
}

// APIPair represents a pair listing as returned by the DexScreener API.
// Prices come back as decimal strings; liquidity and volume as nested
// objects.
type APIPair struct {
	ChainID     string       `json:"chainId"`
	DexID       string       `json:"dexId"`
	URL         string       `json:"url"`
	PairAddress string       `json:"pairAddress"`
	BaseToken   APIToken     `json:"baseToken"`
	QuoteToken  APIToken     `json:"quoteToken"`
	PriceUSD    string       `json:"priceUsd"`
	Liquidity   APILiquidity `json:"liquidity"`
	Volume      APIVolume    `json:"volume"`
}

// APIToken is one side of a pair.
type APIToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// APILiquidity holds the pooled liquidity figures.
type APILiquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// APIVolume holds trailing volume figures in USD.
type APIVolume struct {
	H24 float64 `json:"h24"`
	H6  float64 `json:"h6"`
	H1  float64 `json:"h1"`
	M5  float64 `json:"m5"`
}

// Identifier derives the pair's stable identifier: the first non-empty of
// pair address, listing URL, and base token address.
func (p *APIPair) Identifier() string {
	for _, candidate := range []string{p.PairAddress, p.URL, p.BaseToken.Address} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// ToDomainPair converts an API entry into a validated domain Pair. Entries
// with a missing identifier or an unusable price are rejected.
func (p *APIPair) ToDomainPair() (domain.Pair, error) {
	price, err := strconv.ParseFloat(p.PriceUSD, 64)
	if err != nil {
		price = 0 // NewPair rejects non-positive prices
	}
	return domain.NewPair(
		p.Identifier(),
		p.BaseToken.Name,
		p.BaseToken.Symbol,
		price,
		p.Liquidity.USD,
		p.Volume.H24,
	)
}
