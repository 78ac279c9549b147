// Package engine orchestrates the simulation cycle: fetch a market snapshot,
// close triggered positions, then open new ones for the highest-volume
// eligible pairs. One cycle runs per scan tick and cycles never overlap.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/ledger"
	"github.com/paperdex/paperdex/internal/notify"
	"github.com/paperdex/paperdex/internal/risk"
)

// Config holds the engine's scan parameters.
type Config struct {
	// ScanInterval is the tick period between cycles.
	ScanInterval time.Duration
	// TopPairs caps how many candidates are considered for entry per cycle,
	// taken in descending 24h-volume order.
	TopPairs int
	// MinLiquidityUSD filters candidates before ranking; zero disables the
	// pre-filter.
	MinLiquidityUSD float64
	// MonitorOnly fetches and caches snapshots but leaves the ledger
	// untouched: no exits, no entries.
	MonitorOnly bool
}

// Engine drives the fetch-evaluate-open loop against a single ledger.
type Engine struct {
	feed     domain.MarketFeed
	cache    domain.SnapshotCache
	ledger   *ledger.Ledger
	events   domain.EventPublisher // may be nil
	notifier *notify.Notifier      // may be nil
	cfg      Config
	logger   *slog.Logger

	// cycleMu guards against overlapping cycles: a tick that fires while a
	// cycle is still in flight is skipped, never run concurrently.
	cycleMu sync.Mutex
}

// New creates an Engine. events and notifier are optional; pass nil to
// disable the corresponding fan-out.
func New(
	feed domain.MarketFeed,
	cache domain.SnapshotCache,
	ldg *ledger.Ledger,
	events domain.EventPublisher,
	notifier *notify.Notifier,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		feed:     feed,
		cache:    cache,
		ledger:   ldg,
		events:   events,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "engine")),
	}
}

// Run executes one cycle immediately, then one per scan interval until the
// context is cancelled. Cycle failures are observed and skipped, never
// fatal.
func (e *Engine) Run(ctx context.Context) error {
	e.tick(ctx)

	ticker := time.NewTicker(e.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick runs one cycle unless a previous one is still in flight, in which
// case the tick is skipped.
func (e *Engine) tick(ctx context.Context) {
	if !e.cycleMu.TryLock() {
		e.logger.WarnContext(ctx, "previous cycle still running, skipping tick")
		return
	}
	defer e.cycleMu.Unlock()

	if err := e.runCycle(ctx); err != nil {
		e.logger.WarnContext(ctx, "cycle skipped",
			slog.String("error", err.Error()),
		)
		e.notifyEvent(ctx, "feed_error", "Feed error", err.Error())
	}
}

// RunOnce executes a single cycle, serialized against the ticker loop. It is
// the entry point for tests and one-shot invocations.
func (e *Engine) RunOnce(ctx context.Context) error {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()
	return e.runCycle(ctx)
}

// runCycle performs one fetch-evaluate-open pass. On any fetch failure the
// ledger and the snapshot cache are left exactly as they were.
func (e *Engine) runCycle(ctx context.Context) error {
	started := time.Now().UTC()

	pairs, err := e.feed.FetchSnapshot(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySnapshot) {
			return err
		}
		return fmt.Errorf("engine: fetch snapshot: %w", err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("engine: %w", domain.ErrEmptySnapshot)
	}

	for i := range pairs {
		pairs[i].Risk = risk.Classify(pairs[i].LiquidityUSD, pairs[i].Volume24hUSD)
	}

	snap := domain.Snapshot{Pairs: pairs, FetchedAt: started}
	if err := e.cache.Replace(ctx, snap); err != nil {
		e.logger.WarnContext(ctx, "snapshot cache replace failed",
			slog.String("error", err.Error()),
		)
	}

	if e.cfg.MonitorOnly {
		e.logger.InfoContext(ctx, "scan complete (monitor)",
			slog.Int("pairs", len(pairs)),
		)
		return nil
	}

	latest := snap.ByID()

	// Exits first, so capacity freed this tick is available to new entries
	// in the same tick.
	closed := e.ledger.EvaluateAndClose(latest, time.Now().UTC())
	for _, trade := range closed {
		e.publishClosed(ctx, trade)
	}

	opened := e.openCandidates(ctx, pairs)

	summary := e.ledger.Summarize()
	e.logger.InfoContext(ctx, "scan complete",
		slog.Int("pairs", len(pairs)),
		slog.Int("opened", opened),
		slog.Int("closed", len(closed)),
		slog.Int("open_positions", summary.OpenPositions),
		slog.Float64("balance_usd", summary.BalanceUSD),
		slog.Duration("took", time.Since(started)),
	)
	e.publishCycle(ctx, len(pairs), opened, len(closed), summary)
	return nil
}

// openCandidates ranks the snapshot by descending 24h volume, applies the
// optional liquidity pre-filter, caps to the configured top-N, and attempts
// to open each. Skipped candidates (capacity, duplicate, undersized) are
// expected outcomes, not failures.
func (e *Engine) openCandidates(ctx context.Context, pairs []domain.Pair) int {
	candidates := make([]domain.Pair, 0, len(pairs))
	for _, p := range pairs {
		if e.cfg.MinLiquidityUSD > 0 && p.LiquidityUSD < e.cfg.MinLiquidityUSD {
			continue
		}
		candidates = append(candidates, p)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Volume24hUSD > candidates[j].Volume24hUSD
	})
	if len(candidates) > e.cfg.TopPairs {
		candidates = candidates[:e.cfg.TopPairs]
	}

	opened := 0
	for _, pair := range candidates {
		pos, outcome := e.ledger.OpenPosition(pair, time.Now().UTC())
		switch outcome {
		case ledger.OutcomeOpened:
			opened++
			e.publishOpened(ctx, pos)
		case ledger.OutcomeCapacityFull:
			// No capacity left; later candidates cannot fare better.
			return opened
		default:
			e.logger.DebugContext(ctx, "candidate skipped",
				slog.String("pair", pair.ID),
				slog.String("outcome", outcome.String()),
			)
		}
	}
	return opened
}

// publishOpened emits the position_opened event and notification.
func (e *Engine) publishOpened(ctx context.Context, pos domain.Position) {
	e.publishEvent(ctx, "positions", map[string]any{
		"event":       "position_opened",
		"position_id": pos.ID,
		"pair":        pos.PairID,
		"symbol":      pos.Symbol,
		"risk":        string(pos.Risk),
		"entry_price": pos.EntryPrice,
		"amount_usd":  pos.AmountUSD,
		"take_profit": pos.TakeProfit,
		"stop_loss":   pos.StopLoss,
	})
	e.notifyEvent(ctx, "position_opened", "Position opened",
		fmt.Sprintf("%s (%s) $%.2f @ %.10f", pos.Symbol, pos.Risk, pos.AmountUSD, pos.EntryPrice))
}

// publishClosed emits the position_closed event and notification.
func (e *Engine) publishClosed(ctx context.Context, trade domain.ClosedTrade) {
	e.publishEvent(ctx, "positions", map[string]any{
		"event":       "position_closed",
		"position_id": trade.ID,
		"pair":        trade.PairID,
		"symbol":      trade.Symbol,
		"entry_price": trade.EntryPrice,
		"exit_price":  trade.ExitPrice,
		"profit_usd":  trade.ProfitUSD,
	})
	e.notifyEvent(ctx, "position_closed", "Position closed",
		fmt.Sprintf("%s exit %.10f, P/L $%.2f", trade.Symbol, trade.ExitPrice, trade.ProfitUSD))
}

// publishCycle emits the per-tick cycle summary event.
func (e *Engine) publishCycle(ctx context.Context, pairs, opened, closed int, s ledger.Summary) {
	e.publishEvent(ctx, "cycle", map[string]any{
		"event":          "cycle_completed",
		"pairs":          pairs,
		"opened":         opened,
		"closed":         closed,
		"open_positions": s.OpenPositions,
		"balance_usd":    s.BalanceUSD,
		"realized_pnl":   s.RealizedPnLUSD,
	})
}

// publishEvent marshals and publishes an event; failures are logged only.
func (e *Engine) publishEvent(ctx context.Context, channel string, payload map[string]any) {
	if e.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := e.events.Publish(ctx, channel, data); err != nil {
		e.logger.WarnContext(ctx, "event publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}

// notifyEvent forwards an alert to the notifier when one is configured.
func (e *Engine) notifyEvent(ctx context.Context, event, title, message string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, event, title, message); err != nil {
		e.logger.WarnContext(ctx, "notification failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}
