package handler

import (
	"net/http"
	"time"

	"github.com/paperdex/paperdex/internal/domain"
)

// PositionSource exposes the ledger reads the position handlers require.
// All returned slices are point-in-time copies.
type PositionSource interface {
	OpenPositions() []domain.Position
	ClosedTrades(limit int) []domain.ClosedTrade
}

// PositionHandler serves open-position and closed-trade endpoints.
type PositionHandler struct {
	ledger PositionSource
}

// NewPositionHandler creates a PositionHandler over the given ledger reads.
func NewPositionHandler(ledger PositionSource) *PositionHandler {
	return &PositionHandler{ledger: ledger}
}

// positionJSON is the wire shape of one open position.
type positionJSON struct {
	ID         string  `json:"id"`
	PairID     string  `json:"pair_id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Risk       string  `json:"risk"`
	EntryPrice float64 `json:"entry_price"`
	AmountUSD  float64 `json:"amount_usd"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
	OpenedAt   string  `json:"opened_at"`
}

// tradeJSON is the wire shape of one closed trade.
type tradeJSON struct {
	positionJSON
	ExitPrice float64 `json:"exit_price"`
	ProfitUSD float64 `json:"profit_usd"`
	ClosedAt  string  `json:"closed_at"`
}

func toPositionJSON(p domain.Position) positionJSON {
	return positionJSON{
		ID:         p.ID,
		PairID:     p.PairID,
		Name:       p.Name,
		Symbol:     p.Symbol,
		Risk:       string(p.Risk),
		EntryPrice: p.EntryPrice,
		AmountUSD:  p.AmountUSD,
		TakeProfit: p.TakeProfit,
		StopLoss:   p.StopLoss,
		OpenedAt:   p.OpenedAt.UTC().Format(time.RFC3339),
	}
}

// ListPositions returns all currently open positions, oldest first.
// GET /api/positions
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions := h.ledger.OpenPositions()
	out := make([]positionJSON, 0, len(positions))
	for _, p := range positions {
		out = append(out, toPositionJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": out})
}

// ListTrades returns closed trades, most recent first.
// GET /api/trades?limit=N
func (h *PositionHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 500)
	trades := h.ledger.ClosedTrades(limit)
	out := make([]tradeJSON, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeJSON{
			positionJSON: toPositionJSON(t.Position),
			ExitPrice:    t.ExitPrice,
			ProfitUSD:    t.ProfitUSD,
			ClosedAt:     t.ClosedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"trades": out})
}
