package backtest

import (
	"trend-navigator/internal/calculate"
	"trend-navigator/internal/model"
)

// ComputeMetrics derives the summary statistics of one run from its equity
// curve and closed trades. riskFreeRate is a per-period rate, usually 0.
// Deterministic pure function, no I/O.
func ComputeMetrics(equity []model.EquityPoint, trades []model.Trade, riskFreeRate float64) model.PerformanceMetrics {
	var m model.PerformanceMetrics
	m.TotalTrades = len(trades)

	if len(equity) > 0 {
		initial := equity[0].Equity
		final := equity[len(equity)-1].Equity
		if initial != 0 {
			m.TotalReturn = (final/initial - 1) * 100
		}

		peak := equity[0].Equity
		for _, pt := range equity {
			if pt.Equity > peak {
				peak = pt.Equity
			}
			if peak > 0 {
				drawdown := (peak - pt.Equity) / peak * 100
				if drawdown > m.MaxDrawdown {
					m.MaxDrawdown = drawdown
				}
			}
		}

		returns := make([]float64, 0, len(equity)-1)
		for i := 1; i < len(equity); i++ {
			prev := equity[i-1].Equity
			if prev != 0 {
				returns = append(returns, equity[i].Equity/prev-1)
			}
		}
		m.SortinoRatio = sortinoRatio(returns, riskFreeRate)
	}

	var wins, losses int
	var winPctSum, lossPctSum, grossProfit, grossLoss float64
	for _, t := range trades {
		switch {
		case t.PnL > 0:
			wins++
			winPctSum += t.PnLPercent
			grossProfit += t.PnL
		case t.PnL < 0:
			losses++
			lossPctSum += t.PnLPercent
			grossLoss += -t.PnL
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(wins) / float64(m.TotalTrades) * 100
	}
	if wins > 0 {
		m.AvgWin = winPctSum / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = lossPctSum / float64(losses)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		m.ProfitFactor = model.RatioSentinel
	}

	return m
}

// sortinoRatio divides the mean excess per-period return by the downside
// deviation. Zero downside deviation yields the ratio sentinel in the sign
// of the excess return instead of an arithmetic fault.
func sortinoRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	excess := calculate.Mean(returns) - riskFreeRate

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	deviation := calculate.StdDev(downside, calculate.Mean(downside))

	if deviation == 0 {
		switch {
		case excess > 0:
			return model.RatioSentinel
		case excess < 0:
			return -model.RatioSentinel
		default:
			return 0
		}
	}
	return excess / deviation
}
