package model

// ExitReason explains why a trade was closed.
type ExitReason string

const (
	ExitSignalFlip ExitReason = "SIGNAL_FLIP"
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
	ExitEndOfData  ExitReason = "END_OF_DATA"
)

// Trade is one completed long round trip. The simulator opens at most one
// trade at a time and closes it exactly once.
type Trade struct {
	EntryIndex int        `json:"entry_index"`
	EntryPrice float64    `json:"entry_price"`
	ExitIndex  int        `json:"exit_index"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	Size       float64    `json:"size"`
	PnL        float64    `json:"pnl"`
	PnLPercent float64    `json:"pnl_percent"`
}

// EquityPoint is one mark-to-market sample of the portfolio value.
type EquityPoint struct {
	Index            int     `json:"index"`
	Equity           float64 `json:"equity"`
	CumulativeReturn float64 `json:"cumulative_return"`
}
