package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paperdex/paperdex/internal/domain"
)

const snapshotTTL = 5 * time.Minute

// Key schema:
//
//	paperdex:snapshot       - JSON-serialized latest snapshot
//	paperdex:snapshot:at    - RFC3339 fetch timestamp
const (
	snapshotKey   = "paperdex:snapshot"
	snapshotAtKey = "paperdex:snapshot:at"
)

// SnapshotMirror decorates an inner snapshot cache, additionally writing each
// snapshot into Redis with a short TTL so external dashboards can read it.
// Reads are always served by the inner cache; a mirror write failure is
// reported but the inner cache has already been updated.
type SnapshotMirror struct {
	inner domain.SnapshotCache
	rdb   *redis.Client
}

// NewSnapshotMirror creates a SnapshotMirror around inner backed by the
// given Client.
func NewSnapshotMirror(inner domain.SnapshotCache, c *Client) *SnapshotMirror {
	return &SnapshotMirror{inner: inner, rdb: c.Underlying()}
}

// Replace updates the inner cache, then mirrors the snapshot into Redis.
func (m *SnapshotMirror) Replace(ctx context.Context, snap domain.Snapshot) error {
	if err := m.inner.Replace(ctx, snap); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot: %w", err)
	}

	pipe := m.rdb.TxPipeline()
	pipe.Set(ctx, snapshotKey, data, snapshotTTL)
	pipe.Set(ctx, snapshotAtKey, snap.FetchedAt.UTC().Format(time.RFC3339), snapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: mirror snapshot: %w", err)
	}
	return nil
}

// Latest returns the inner cache's snapshot.
func (m *SnapshotMirror) Latest(ctx context.Context) (domain.Snapshot, error) {
	return m.inner.Latest(ctx)
}

// ReadMirror fetches the mirrored snapshot directly from Redis. It exists for
// external consumers and tests; the simulator itself never reads it back.
// It returns domain.ErrNotFound when the key has expired or was never set.
func (m *SnapshotMirror) ReadMirror(ctx context.Context) (domain.Snapshot, error) {
	data, err := m.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis: unmarshal snapshot: %w", err)
	}
	return snap, nil
}
