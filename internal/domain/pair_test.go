package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		id        string
		price     float64
		liquidity float64
		volume    float64
		wantErr   bool
	}{
		{"valid", "abc", 0.01, 1000, 500, false},
		{"zero liquidity ok", "abc", 0.01, 0, 500, false},
		{"zero volume ok", "abc", 0.01, 1000, 0, false},
		{"empty id", "", 0.01, 1000, 500, true},
		{"zero price", "abc", 0, 1000, 500, true},
		{"negative price", "abc", -1, 1000, 500, true},
		{"negative liquidity", "abc", 0.01, -1, 500, true},
		{"negative volume", "abc", 0.01, 1000, -1, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewPair(tt.id, "Name", "SYM", tt.price, tt.liquidity, tt.volume)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, p.ID)
			assert.Empty(t, p.Risk, "risk is assigned by the caller, not the constructor")
		})
	}
}

func TestSnapshot_ByID(t *testing.T) {
	t.Parallel()

	s := Snapshot{Pairs: []Pair{
		{ID: "a", PriceUSD: 1},
		{ID: "b", PriceUSD: 2},
	}}

	idx := s.ByID()
	require.Len(t, idx, 2)
	assert.InDelta(t, 1.0, idx["a"].PriceUSD, 1e-12)
	assert.InDelta(t, 2.0, idx["b"].PriceUSD, 1e-12)

	_, ok := idx["missing"]
	assert.False(t, ok)
}
