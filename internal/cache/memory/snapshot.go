// Package memory implements the snapshot cache as a mutex-guarded in-process
// store. This is the canonical cache; the Redis mirror only decorates it.
package memory

import (
	"context"
	"sync"

	"github.com/paperdex/paperdex/internal/domain"
)

// SnapshotCache holds the most recent market snapshot.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap domain.Snapshot
	set  bool
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Replace swaps the cached snapshot wholesale.
func (c *SnapshotCache) Replace(ctx context.Context, snap domain.Snapshot) error {
	pairs := make([]domain.Pair, len(snap.Pairs))
	copy(pairs, snap.Pairs)
	snap.Pairs = pairs

	c.mu.Lock()
	c.snap = snap
	c.set = true
	c.mu.Unlock()
	return nil
}

// Latest returns a point-in-time copy of the cached snapshot, or
// domain.ErrNotFound before the first Replace.
func (c *SnapshotCache) Latest(ctx context.Context) (domain.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	out := c.snap
	out.Pairs = make([]domain.Pair, len(c.snap.Pairs))
	copy(out.Pairs, c.snap.Pairs)
	return out, nil
}
