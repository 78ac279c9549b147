package domain

import (
	"fmt"
	"time"
)

// RiskTier buckets a pair by how thin its market is. Ordering from riskiest
// to safest: aggressive < cautious < safe.
type RiskTier string

const (
	RiskAggressive RiskTier = "aggressive"
	RiskCautious   RiskTier = "cautious"
	RiskSafe       RiskTier = "safe"
)

// Pair is a tradable token listing taken from one market snapshot. Pairs are
// created fresh on every scan and replaced wholesale by the next one; nothing
// holds a Pair across scans, only its ID.
type Pair struct {
	ID           string
	Name         string
	Symbol       string
	PriceUSD     float64
	LiquidityUSD float64
	Volume24hUSD float64
	Risk         RiskTier
}

// NewPair validates the numeric invariants of a feed entry and returns the
// resulting Pair. The risk tier is left for the caller to assign.
func NewPair(id, name, symbol string, priceUSD, liquidityUSD, volume24hUSD float64) (Pair, error) {
	if id == "" {
		return Pair{}, fmt.Errorf("domain: pair id must not be empty")
	}
	if priceUSD <= 0 {
		return Pair{}, fmt.Errorf("domain: pair %s: price must be positive, got %v", id, priceUSD)
	}
	if liquidityUSD < 0 {
		return Pair{}, fmt.Errorf("domain: pair %s: liquidity must not be negative, got %v", id, liquidityUSD)
	}
	if volume24hUSD < 0 {
		return Pair{}, fmt.Errorf("domain: pair %s: volume must not be negative, got %v", id, volume24hUSD)
	}
	return Pair{
		ID:           id,
		Name:         name,
		Symbol:       symbol,
		PriceUSD:     priceUSD,
		LiquidityUSD: liquidityUSD,
		Volume24hUSD: volume24hUSD,
	}, nil
}

// Snapshot is the full set of pairs returned by one market feed fetch.
type Snapshot struct {
	Pairs     []Pair
	FetchedAt time.Time
}

// ByID indexes the snapshot's pairs by their identifier.
func (s Snapshot) ByID() map[string]Pair {
	idx := make(map[string]Pair, len(s.Pairs))
	for _, p := range s.Pairs {
		idx[p.ID] = p
	}
	return idx
}
