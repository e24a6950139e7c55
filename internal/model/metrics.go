package model

import "fmt"

// RatioSentinel stands in for ratios whose denominator is empty (no losing
// trades, no downside periods). Kept finite so results serialize cleanly to
// CSV and SQL sinks.
const RatioSentinel = 1e9

// PerformanceMetrics summarizes one backtest run. The json tags double as
// the metric keys accepted by result ranking and as the column names of the
// tabular reporting surface.
type PerformanceMetrics struct {
	TotalReturn  float64 `json:"total_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SortinoRatio float64 `json:"sortino_ratio"`
	WinRate      float64 `json:"win_rate"`
	TotalTrades  int     `json:"total_trades"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	ProfitFactor float64 `json:"profit_factor"`
}

// MetricNames lists the valid metric keys in reporting column order.
var MetricNames = []string{
	"total_return",
	"max_drawdown",
	"sortino_ratio",
	"win_rate",
	"total_trades",
	"avg_win",
	"avg_loss",
	"profit_factor",
}

// Field returns the value stored under the given metric key.
func (m PerformanceMetrics) Field(name string) (float64, error) {
	switch name {
	case "total_return":
		return m.TotalReturn, nil
	case "max_drawdown":
		return m.MaxDrawdown, nil
	case "sortino_ratio":
		return m.SortinoRatio, nil
	case "win_rate":
		return m.WinRate, nil
	case "total_trades":
		return float64(m.TotalTrades), nil
	case "avg_win":
		return m.AvgWin, nil
	case "avg_loss":
		return m.AvgLoss, nil
	case "profit_factor":
		return m.ProfitFactor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}
