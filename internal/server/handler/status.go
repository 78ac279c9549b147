package handler

import (
	"net/http"
	"time"

	"github.com/paperdex/paperdex/internal/ledger"
)

// LedgerSummarizer exposes the ledger overview the status endpoint needs.
type LedgerSummarizer interface {
	Summarize() ledger.Summary
}

// StatusHandler serves the simulator overview for dashboards.
type StatusHandler struct {
	ledger    LedgerSummarizer
	mode      string
	startedAt time.Time
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(ledger LedgerSummarizer, mode string) *StatusHandler {
	return &StatusHandler{
		ledger:    ledger,
		mode:      mode,
		startedAt: time.Now().UTC(),
	}
}

// statusResponse is the JSON shape of the status endpoint.
type statusResponse struct {
	Mode             string  `json:"mode"`
	StartedAt        string  `json:"started_at"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
	BalanceUSD       float64 `json:"balance_usd"`
	StartingBalance  float64 `json:"starting_balance_usd"`
	RealizedPnLUSD   float64 `json:"realized_pnl_usd"`
	OpenPositions    int     `json:"open_positions"`
	MaxOpenPositions int     `json:"max_open_positions"`
	ClosedTrades     int     `json:"closed_trades"`
}

// GetStatus responds with the current balance and trading counters.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	s := h.ledger.Summarize()
	writeJSON(w, http.StatusOK, statusResponse{
		Mode:             h.mode,
		StartedAt:        h.startedAt.Format(time.RFC3339),
		UptimeSeconds:    int64(time.Since(h.startedAt).Seconds()),
		BalanceUSD:       s.BalanceUSD,
		StartingBalance:  s.StartingBalance,
		RealizedPnLUSD:   s.RealizedPnLUSD,
		OpenPositions:    s.OpenPositions,
		MaxOpenPositions: s.MaxOpenPositions,
		ClosedTrades:     s.ClosedTrades,
	})
}
