// Package feed provides market feed implementations that do not depend on an
// external API. The sample feed drives demos and tests with a deterministic
// random walk over a fixed token set.
package feed

import (
	"context"
	"math/rand"
	"sync"

	"github.com/paperdex/paperdex/internal/domain"
)

// sampleToken seeds one synthetic listing.
type sampleToken struct {
	id, name, symbol string
	price            float64
	liquidity        float64
	volume           float64
}

// defaultTokens spans all three risk tiers so a sample run exercises the
// whole sizing policy.
var defaultTokens = []sampleToken{
	{"smpl-moon", "Moonrock", "MOON", 0.000012, 12_000, 3_000},
	{"smpl-frog", "Frogcoin", "FROG", 0.00045, 18_500, 9_200},
	{"smpl-dust", "Stardust", "DUST", 0.0031, 35_000, 22_000},
	{"smpl-wave", "Wavelet", "WAVE", 0.027, 64_000, 41_000},
	{"smpl-keel", "Keelhaul", "KEEL", 0.18, 95_000, 87_000},
	{"smpl-iron", "Ironbark", "IRON", 1.42, 150_000, 210_000},
	{"smpl-arch", "Archway", "ARCH", 6.8, 480_000, 390_000},
	{"smpl-vast", "Vastland", "VAST", 23.5, 1_200_000, 950_000},
}

// SampleFeed implements domain.MarketFeed with a random walk over a fixed
// token set. Prices drift a few percent per fetch; liquidity and volume
// wobble around their seeds.
type SampleFeed struct {
	mu     sync.Mutex
	tokens []sampleToken
	rng    *rand.Rand
}

// NewSampleFeed creates a sample feed seeded for reproducible runs.
func NewSampleFeed(seed int64) *SampleFeed {
	tokens := make([]sampleToken, len(defaultTokens))
	copy(tokens, defaultTokens)
	return &SampleFeed{
		tokens: tokens,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// FetchSnapshot advances the walk one step and returns the full listing set.
// It never fails.
func (f *SampleFeed) FetchSnapshot(ctx context.Context) ([]domain.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pairs := make([]domain.Pair, 0, len(f.tokens))
	for i := range f.tokens {
		t := &f.tokens[i]

		// Drift price up to +/-4% and volume up to +/-10% per step.
		t.price *= 1 + (f.rng.Float64()-0.5)*0.08
		t.volume *= 1 + (f.rng.Float64()-0.5)*0.2
		if t.volume < 0 {
			t.volume = 0
		}

		pair, err := domain.NewPair(t.id, t.name, t.symbol, t.price, t.liquidity, t.volume)
		if err != nil {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
