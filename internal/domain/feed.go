package domain

import "context"

// MarketFeed returns, on demand, a fresh list of tradable pairs.
// Implementations must bound the fetch time and return ErrFeedUnavailable
// (wrapped) on transport or decode failures, and ErrEmptySnapshot when no
// usable pairs came back.
type MarketFeed interface {
	FetchSnapshot(ctx context.Context) ([]Pair, error)
}

// SnapshotCache holds the most recent market snapshot so exit and entry
// evaluation within a cycle, and any external reader, see consistent data.
type SnapshotCache interface {
	// Replace swaps the cached snapshot wholesale.
	Replace(ctx context.Context, snap Snapshot) error
	// Latest returns a point-in-time copy of the cached snapshot, or
	// ErrNotFound before the first successful fetch.
	Latest(ctx context.Context) (Snapshot, error)
}

// EventPublisher fans simulator events out to observers (WebSocket clients,
// Redis subscribers). Publishing is best-effort; failures never affect the
// simulation state.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
