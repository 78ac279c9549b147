package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/paperdex/paperdex/internal/domain"
)

// PairsHandler serves the latest cached market snapshot.
type PairsHandler struct {
	cache  domain.SnapshotCache
	logger *slog.Logger
}

// NewPairsHandler creates a PairsHandler over the given snapshot cache.
func NewPairsHandler(cache domain.SnapshotCache, logger *slog.Logger) *PairsHandler {
	return &PairsHandler{cache: cache, logger: logger}
}

// pairJSON is the wire shape of one snapshot entry.
type pairJSON struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	PriceUSD     float64 `json:"price_usd"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	Risk         string  `json:"risk"`
}

// ListPairs returns the latest snapshot ranked by descending 24h volume.
// GET /api/pairs?limit=N
func (h *PairsHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	snap, err := h.cache.Latest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"pairs": []pairJSON{}, "fetched_at": nil})
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: snapshot read failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read snapshot")
		return
	}

	pairs := snap.Pairs
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Volume24hUSD > pairs[j].Volume24hUSD
	})

	limit := parseLimit(r, 50, 500)
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}

	out := make([]pairJSON, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pairJSON{
			ID:           p.ID,
			Name:         p.Name,
			Symbol:       p.Symbol,
			PriceUSD:     p.PriceUSD,
			LiquidityUSD: p.LiquidityUSD,
			Volume24hUSD: p.Volume24hUSD,
			Risk:         string(p.Risk),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pairs":      out,
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
	})
}
