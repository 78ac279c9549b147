package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdex/paperdex/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		liquidity float64
		volume    float64
		want      domain.RiskTier
	}{
		{"low liquidity", 10_000, 50_000, domain.RiskAggressive},
		{"low volume", 500_000, 4_000, domain.RiskAggressive},
		{"both low", 1_000, 100, domain.RiskAggressive},
		{"mid liquidity", 50_000, 10_000, domain.RiskCautious},
		{"high both", 250_000, 80_000, domain.RiskSafe},
		{"liquidity at aggressive boundary", 20_000, 10_000, domain.RiskCautious},
		{"volume at aggressive boundary", 50_000, 5_000, domain.RiskCautious},
		{"liquidity at safe boundary", 100_000, 10_000, domain.RiskSafe},
		{"just under safe boundary", 99_999.99, 10_000, domain.RiskCautious},
		{"zero everything", 0, 0, domain.RiskAggressive},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.liquidity, tt.volume)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPolicy_Fractions(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	assert.InDelta(t, 0.05, p.Fraction(domain.RiskAggressive), 1e-12)
	assert.InDelta(t, 0.10, p.Fraction(domain.RiskCautious), 1e-12)
	assert.InDelta(t, 0.20, p.Fraction(domain.RiskSafe), 1e-12)

	// Riskier tiers commit strictly smaller fractions.
	assert.Less(t, p.Fraction(domain.RiskAggressive), p.Fraction(domain.RiskCautious))
	assert.Less(t, p.Fraction(domain.RiskCautious), p.Fraction(domain.RiskSafe))
}

func TestDefaultPolicy_UnknownTierFallsBackToAggressive(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	assert.InDelta(t, p.Fraction(domain.RiskAggressive), p.Fraction(domain.RiskTier("bogus")), 1e-12)
}

func TestPolicy_Targets(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		name   string
		tier   domain.RiskTier
		entry  float64
		wantTP float64
		wantSL float64
	}{
		{"aggressive", domain.RiskAggressive, 0.000012, 0.0000126, 0.0000108},
		{"cautious", domain.RiskCautious, 2.0, 2.2, 1.76},
		{"safe", domain.RiskSafe, 100.0, 115.0, 85.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tp, sl := p.Targets(tt.tier, tt.entry)
			assert.InDelta(t, tt.wantTP, tp, 1e-12)
			assert.InDelta(t, tt.wantSL, sl, 1e-12)
			assert.Greater(t, tp, tt.entry)
			assert.Less(t, sl, tt.entry)
			assert.Greater(t, sl, 0.0)
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultPolicy().Validate())

	bad := DefaultPolicy()
	bad.Cautious.Fraction = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultPolicy()
	bad.Safe.StopLossPct = 1.0
	assert.Error(t, bad.Validate())

	bad = DefaultPolicy()
	bad.Aggressive.TakeProfitPct = 0
	assert.Error(t, bad.Validate())

	bad = DefaultPolicy()
	bad.MinPositionUSD = -1
	assert.Error(t, bad.Validate())
}
