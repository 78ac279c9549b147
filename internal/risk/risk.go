// Package risk classifies market pairs into coarse risk tiers and derives
// position sizing and exit targets from a tunable policy.
package risk

import (
	"fmt"

	"github.com/paperdex/paperdex/internal/domain"
)

// Classification thresholds in USD. A pair below the liquidity or volume
// floor is aggressive; above both but under the safe-liquidity bar it is
// cautious. Boundary values land on the safer side.
const (
	AggressiveLiquidityUSD = 20_000
	AggressiveVolumeUSD    = 5_000
	SafeLiquidityUSD       = 100_000
)

// Classify maps a pair's liquidity and 24h volume into a risk tier. Pure and
// deterministic; it never fails.
func Classify(liquidityUSD, volume24hUSD float64) domain.RiskTier {
	if liquidityUSD < AggressiveLiquidityUSD || volume24hUSD < AggressiveVolumeUSD {
		return domain.RiskAggressive
	}
	if liquidityUSD < SafeLiquidityUSD {
		return domain.RiskCautious
	}
	return domain.RiskSafe
}

// Band holds the sizing fraction and exit percentages for one tier.
type Band struct {
	// Fraction of the current balance committed per position, in (0,1].
	Fraction float64
	// TakeProfitPct and StopLossPct are relative distances from the entry
	// price, e.g. 0.05 means +5% take-profit or -5% stop-loss.
	TakeProfitPct float64
	StopLossPct   float64
}

// Policy maps each risk tier to its sizing and exit band. The exact
// percentages are tunable configuration; the tier ordering (riskier tiers
// commit smaller fractions) is the contract.
type Policy struct {
	Aggressive Band
	Cautious   Band
	Safe       Band

	// MinPositionUSD is the smallest viable position; sizing below it is
	// skipped rather than opened.
	MinPositionUSD float64
}

// DefaultPolicy returns the stock bands: aggressive 5% size with +5%/-10%
// exits, cautious 10% with +10%/-12%, safe 20% with +15%/-15%.
func DefaultPolicy() Policy {
	return Policy{
		Aggressive:     Band{Fraction: 0.05, TakeProfitPct: 0.05, StopLossPct: 0.10},
		Cautious:       Band{Fraction: 0.10, TakeProfitPct: 0.10, StopLossPct: 0.12},
		Safe:           Band{Fraction: 0.20, TakeProfitPct: 0.15, StopLossPct: 0.15},
		MinPositionUSD: 1.0,
	}
}

// band returns the Band for the given tier, falling back to the aggressive
// band for unknown tiers so an unclassified pair is never oversized.
func (p Policy) band(tier domain.RiskTier) Band {
	switch tier {
	case domain.RiskSafe:
		return p.Safe
	case domain.RiskCautious:
		return p.Cautious
	default:
		return p.Aggressive
	}
}

// Fraction returns the balance fraction committed per position for the tier.
func (p Policy) Fraction(tier domain.RiskTier) float64 {
	return p.band(tier).Fraction
}

// Targets derives the take-profit and stop-loss prices for an entry at the
// given price. Both are strictly positive with takeProfit > entry > stopLoss.
func (p Policy) Targets(tier domain.RiskTier, entryPrice float64) (takeProfit, stopLoss float64) {
	b := p.band(tier)
	return entryPrice * (1 + b.TakeProfitPct), entryPrice * (1 - b.StopLossPct)
}

// Validate checks that every band is internally consistent.
func (p Policy) Validate() error {
	for _, tb := range []struct {
		tier domain.RiskTier
		b    Band
	}{
		{domain.RiskAggressive, p.Aggressive},
		{domain.RiskCautious, p.Cautious},
		{domain.RiskSafe, p.Safe},
	} {
		if tb.b.Fraction <= 0 || tb.b.Fraction > 1 {
			return fmt.Errorf("risk: %s fraction must be in (0,1], got %v", tb.tier, tb.b.Fraction)
		}
		if tb.b.TakeProfitPct <= 0 {
			return fmt.Errorf("risk: %s take-profit pct must be positive, got %v", tb.tier, tb.b.TakeProfitPct)
		}
		if tb.b.StopLossPct <= 0 || tb.b.StopLossPct >= 1 {
			return fmt.Errorf("risk: %s stop-loss pct must be in (0,1), got %v", tb.tier, tb.b.StopLossPct)
		}
	}
	if p.MinPositionUSD < 0 {
		return fmt.Errorf("risk: min position must not be negative, got %v", p.MinPositionUSD)
	}
	return nil
}
