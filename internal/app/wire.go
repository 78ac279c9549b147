package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paperdex/paperdex/internal/cache/memory"
	"github.com/paperdex/paperdex/internal/cache/redis"
	"github.com/paperdex/paperdex/internal/config"
	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/feed"
	"github.com/paperdex/paperdex/internal/ledger"
	"github.com/paperdex/paperdex/internal/notify"
	"github.com/paperdex/paperdex/internal/platform/dexscreener"
	"github.com/paperdex/paperdex/internal/risk"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Feed     domain.MarketFeed
	Cache    domain.SnapshotCache
	Ledger   *ledger.Ledger
	Notifier *notify.Notifier

	// EventBus is non-nil only when Redis is enabled. Simulator events are
	// then mirrored to Redis pub/sub in addition to the WebSocket hub.
	EventBus *redis.EventBus
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them with a cleanup function for shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Market feed ---
	switch strings.ToLower(cfg.Feed.Mode) {
	case "sample":
		deps.Feed = feed.NewSampleFeed(time.Now().UnixNano())
	default:
		deps.Feed = dexscreener.NewClient(cfg.Feed.BaseURL, cfg.Feed.Chain, cfg.FeedTimeout())
	}

	// --- Snapshot cache, optionally mirrored into Redis ---
	deps.Cache = memory.NewSnapshotCache()
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Cache = redis.NewSnapshotMirror(deps.Cache, redisClient)
		deps.EventBus = redis.NewEventBus(redisClient)
	}

	// --- Ledger ---
	policy := policyFromConfig(cfg.Sim)
	if err := policy.Validate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: %w", err)
	}
	deps.Ledger = ledger.New(ledger.Config{
		StartingBalance:  cfg.Sim.StartingBalance,
		MaxOpenPositions: cfg.Sim.MaxOpenPositions,
		MaxClosedTrades:  cfg.Sim.MaxClosedTrades,
	}, policy, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// policyFromConfig translates the per-tier sim settings into a risk.Policy.
func policyFromConfig(sim config.SimConfig) risk.Policy {
	band := func(tc config.TierConfig) risk.Band {
		return risk.Band{
			Fraction:      tc.Fraction,
			TakeProfitPct: tc.TakeProfitPct,
			StopLossPct:   tc.StopLossPct,
		}
	}
	return risk.Policy{
		Aggressive:     band(sim.Aggressive),
		Cautious:       band(sim.Cautious),
		Safe:           band(sim.Safe),
		MinPositionUSD: sim.MinPositionUSD,
	}
}

// fanout publishes every event to all underlying publishers. A failing
// publisher does not stop delivery to the others.
type fanout struct {
	publishers []domain.EventPublisher
}

// newFanout builds an EventPublisher over the non-nil publishers. It returns
// nil when none are given so callers can pass the result straight through.
func newFanout(publishers ...domain.EventPublisher) domain.EventPublisher {
	var active []domain.EventPublisher
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	if len(active) == 1 {
		return active[0]
	}
	return &fanout{publishers: active}
}

// Publish implements domain.EventPublisher.
func (f *fanout) Publish(ctx context.Context, channel string, payload []byte) error {
	var firstErr error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, channel, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
