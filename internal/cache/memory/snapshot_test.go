package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdex/paperdex/internal/domain"
)

func TestLatest_EmptyCache(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	_, err := c.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceAndLatest(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	fetched := time.Now().UTC()
	snap := domain.Snapshot{
		Pairs: []domain.Pair{
			{ID: "a", Symbol: "A", PriceUSD: 1.0},
			{ID: "b", Symbol: "B", PriceUSD: 2.0},
		},
		FetchedAt: fetched,
	}
	require.NoError(t, c.Replace(context.Background(), snap))

	got, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fetched, got.FetchedAt)
	assert.Equal(t, snap.Pairs, got.Pairs)
}

func TestReplace_SwapsWholesale(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	ctx := context.Background()

	require.NoError(t, c.Replace(ctx, domain.Snapshot{
		Pairs: []domain.Pair{{ID: "old", PriceUSD: 1.0}},
	}))
	require.NoError(t, c.Replace(ctx, domain.Snapshot{
		Pairs: []domain.Pair{{ID: "new", PriceUSD: 2.0}},
	}))

	got, err := c.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, got.Pairs, 1)
	assert.Equal(t, "new", got.Pairs[0].ID)
}

func TestLatest_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewSnapshotCache()
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, domain.Snapshot{
		Pairs: []domain.Pair{{ID: "a", PriceUSD: 1.0}},
	}))

	first, err := c.Latest(ctx)
	require.NoError(t, err)
	first.Pairs[0].PriceUSD = 99.0

	second, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, second.Pairs[0].PriceUSD, 1e-12)
}
