package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventBus implements domain.EventPublisher over Redis pub/sub so external
// consumers can follow simulator events (cycle summaries, position
// opens/closes) without connecting to the HTTP API.
type EventBus struct {
	rdb *redis.Client
}

// NewEventBus creates an EventBus backed by the given Client.
func NewEventBus(c *Client) *EventBus {
	return &EventBus{rdb: c.Underlying()}
}

// Publish sends payload on the given channel, prefixed with "paperdex:".
func (b *EventBus) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.rdb.Publish(ctx, "paperdex:"+channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", channel, err)
	}
	return nil
}
