// Package ledger owns the virtual balance, the open positions, and the
// bounded history of closed trades. All mutation goes through the Ledger's
// methods; the debit/append of an open and the credit/remove/prepend of a
// close are each atomic with respect to concurrent readers.
package ledger

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/risk"
)

// OpenOutcome is the explicit result of an OpenPosition attempt. Everything
// except OutcomeOpened is an expected, frequent non-error: the candidate pair
// is simply skipped.
type OpenOutcome int

const (
	OutcomeOpened OpenOutcome = iota
	// OutcomeCapacityFull: the configured maximum of concurrent open
	// positions is already reached.
	OutcomeCapacityFull
	// OutcomeDuplicate: a position for the same pair ID is already open.
	OutcomeDuplicate
	// OutcomeBelowMinimum: the sized amount falls under the minimum viable
	// position.
	OutcomeBelowMinimum
)

// String returns the outcome name for logs and events.
func (o OpenOutcome) String() string {
	switch o {
	case OutcomeOpened:
		return "opened"
	case OutcomeCapacityFull:
		return "capacity_full"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeBelowMinimum:
		return "below_minimum"
	default:
		return "unknown"
	}
}

// Config bounds the ledger's collections and seeds its balance.
type Config struct {
	StartingBalance  float64
	MaxOpenPositions int
	MaxClosedTrades  int
}

// Summary is a point-in-time ledger overview for status reporting.
type Summary struct {
	BalanceUSD       float64
	OpenPositions    int
	ClosedTrades     int
	RealizedPnLUSD   float64
	StartingBalance  float64
	MaxOpenPositions int
}

// Ledger is the sole owner of the simulation's mutable trading state.
type Ledger struct {
	mu sync.RWMutex

	balance  float64
	open     map[string]domain.Position // keyed by pair ID
	closed   []domain.ClosedTrade       // most-recent-first
	realized float64

	cfg    Config
	policy risk.Policy
	logger *slog.Logger
}

// New creates a Ledger seeded with the configured starting balance.
func New(cfg Config, policy risk.Policy, logger *slog.Logger) *Ledger {
	return &Ledger{
		balance: cfg.StartingBalance,
		open:    make(map[string]domain.Position),
		cfg:     cfg,
		policy:  policy,
		logger:  logger.With(slog.String("component", "ledger")),
	}
}

// OpenPosition sizes and opens a simulated position on the pair, debiting the
// committed amount from the balance in the same critical section that records
// the position. Skipped candidates are reported through the outcome, never as
// errors.
func (l *Ledger) OpenPosition(pair domain.Pair, now time.Time) (domain.Position, OpenOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.open) >= l.cfg.MaxOpenPositions {
		return domain.Position{}, OutcomeCapacityFull
	}
	if _, held := l.open[pair.ID]; held {
		return domain.Position{}, OutcomeDuplicate
	}

	amount := l.balance * l.policy.Fraction(pair.Risk)
	if amount < l.policy.MinPositionUSD {
		return domain.Position{}, OutcomeBelowMinimum
	}

	takeProfit, stopLoss := l.policy.Targets(pair.Risk, pair.PriceUSD)
	pos := domain.Position{
		ID:         uuid.NewString(),
		PairID:     pair.ID,
		Name:       pair.Name,
		Symbol:     pair.Symbol,
		Risk:       pair.Risk,
		EntryPrice: pair.PriceUSD,
		AmountUSD:  amount,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
		OpenedAt:   now,
	}

	l.balance -= amount
	l.open[pair.ID] = pos

	l.logger.Info("position opened",
		slog.String("pair", pair.ID),
		slog.String("symbol", pair.Symbol),
		slog.String("risk", string(pair.Risk)),
		slog.Float64("entry_price", pos.EntryPrice),
		slog.Float64("amount_usd", pos.AmountUSD),
		slog.Float64("balance_usd", l.balance),
	)
	return pos, OutcomeOpened
}

// EvaluateAndClose checks every open position against the latest snapshot
// index. Positions whose pair is absent are carried unchanged; a data gap is
// not a close signal. Positions at or beyond take-profit or stop-loss are
// closed: the committed amount scaled by exit/entry is credited back and the
// trade is prepended to the bounded history. Returns the trades closed by
// this call.
func (l *Ledger) EvaluateAndClose(latest map[string]domain.Pair, now time.Time) []domain.ClosedTrade {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closed []domain.ClosedTrade
	for pairID, pos := range l.open {
		pair, present := latest[pairID]
		if !present {
			continue
		}

		price := pair.PriceUSD
		if price < pos.TakeProfit && price > pos.StopLoss {
			continue
		}

		multiplier := price / pos.EntryPrice
		finalAmount := pos.AmountUSD * multiplier
		profit := finalAmount - pos.AmountUSD

		l.balance += finalAmount
		l.realized += profit
		delete(l.open, pairID)

		trade := domain.ClosedTrade{
			Position:  pos,
			ExitPrice: price,
			ProfitUSD: profit,
			ClosedAt:  now,
		}
		l.closed = append([]domain.ClosedTrade{trade}, l.closed...)
		closed = append(closed, trade)

		l.logger.Info("position closed",
			slog.String("pair", pairID),
			slog.String("symbol", pos.Symbol),
			slog.Float64("entry_price", pos.EntryPrice),
			slog.Float64("exit_price", price),
			slog.Float64("profit_usd", profit),
			slog.Float64("balance_usd", l.balance),
		)
	}

	if len(l.closed) > l.cfg.MaxClosedTrades {
		l.closed = l.closed[:l.cfg.MaxClosedTrades]
	}
	return closed
}

// Balance returns the current virtual balance in USD.
func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// OpenPositions returns a copy of the open positions, oldest first.
func (l *Ledger) OpenPositions() []domain.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Position, 0, len(l.open))
	for _, pos := range l.open {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].PairID < out[j].PairID
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// ClosedTrades returns a copy of up to limit closed trades, most recent
// first. A non-positive limit returns the full bounded history.
func (l *Ledger) ClosedTrades(limit int) []domain.ClosedTrade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.closed)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.ClosedTrade, n)
	copy(out, l.closed[:n])
	return out
}

// Summarize returns a consistent snapshot of the ledger's headline numbers.
func (l *Ledger) Summarize() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Summary{
		BalanceUSD:       l.balance,
		OpenPositions:    len(l.open),
		ClosedTrades:     len(l.closed),
		RealizedPnLUSD:   l.realized,
		StartingBalance:  l.cfg.StartingBalance,
		MaxOpenPositions: l.cfg.MaxOpenPositions,
	}
}
