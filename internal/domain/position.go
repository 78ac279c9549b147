package domain

import "time"

// Position is a simulated open trade. The committed amount was debited from
// the ledger balance when the position was opened and is re-credited, scaled
// by the exit/entry price ratio, exactly once when it closes.
type Position struct {
	ID         string
	PairID     string
	Name       string
	Symbol     string
	Risk       RiskTier
	EntryPrice float64
	AmountUSD  float64
	TakeProfit float64
	StopLoss   float64
	OpenedAt   time.Time
}

// ClosedTrade is a terminal position snapshot with its exit details.
type ClosedTrade struct {
	Position
	ExitPrice float64
	ProfitUSD float64
	ClosedAt  time.Time
}
