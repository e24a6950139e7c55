package backtest

import (
	"fmt"

	"trend-navigator/internal/model"
)

// Params configures one simulation run.
type Params struct {
	InitialCapital      float64 `json:"initial_capital"`
	MaxPositionFraction float64 `json:"max_position_fraction"`
	StopLossPercent     float64 `json:"stop_loss_percent"`   // fraction below entry, e.g. 0.05
	TakeProfitPercent   float64 `json:"take_profit_percent"` // fraction above entry
	TransactionCostRate float64 `json:"transaction_cost_rate"`
}

func (p Params) validate() error {
	if p.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial capital %.2f, must be positive", model.ErrInvalidParameter, p.InitialCapital)
	}
	if p.MaxPositionFraction <= 0 || p.MaxPositionFraction > 1 {
		return fmt.Errorf("%w: position fraction %.4f, must be in (0, 1]", model.ErrInvalidParameter, p.MaxPositionFraction)
	}
	if p.StopLossPercent <= 0 || p.StopLossPercent >= 1 {
		return fmt.Errorf("%w: stop loss %.4f, must be in (0, 1)", model.ErrInvalidParameter, p.StopLossPercent)
	}
	if p.TakeProfitPercent <= 0 {
		return fmt.Errorf("%w: take profit %.4f, must be positive", model.ErrInvalidParameter, p.TakeProfitPercent)
	}
	if p.TransactionCostRate < 0 || p.TransactionCostRate >= 1 {
		return fmt.Errorf("%w: transaction cost rate %.4f, must be in [0, 1)", model.ErrInvalidParameter, p.TransactionCostRate)
	}
	return nil
}

// Result holds the trade log and equity curve of one simulation run.
type Result struct {
	Trades []model.Trade
	Equity []model.EquityPoint
}

// Simulate replays the signal sequence against the candle series through a
// flat/long state machine: a buy opens a long position sized by
// MaxPositionFraction of current equity, a sell closes it at the close.
// Stop-loss and take-profit are checked against the candle's low/high before
// the same-index signal, stop-loss first when both are in range. Any open
// position is force-closed at the final close. Equity is marked to market at
// every index. Warm-up indices carry hold signals by construction, and a
// sell while flat is a no-op.
func Simulate(series model.Series, points []model.IndicatorPoint, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(series) != len(points) {
		return nil, fmt.Errorf("%w: %d candles vs %d indicator points",
			model.ErrLengthMismatch, len(series), len(points))
	}

	res := &Result{Equity: make([]model.EquityPoint, 0, len(series))}
	cash := p.InitialCapital

	var (
		long       bool
		entryIndex int
		entryPrice float64
		size       float64
		entrySpent float64
	)

	closeTrade := func(i int, price float64, reason model.ExitReason) {
		proceeds := size * price
		cost := p.TransactionCostRate * proceeds
		cash += proceeds - cost

		pnl := proceeds - cost - entrySpent
		trade := model.Trade{
			EntryIndex: entryIndex,
			EntryPrice: entryPrice,
			ExitIndex:  i,
			ExitPrice:  price,
			ExitReason: reason,
			Size:       size,
			PnL:        pnl,
			PnLPercent: pnl / entrySpent * 100,
		}
		res.Trades = append(res.Trades, trade)
		long = false
		size = 0
	}

	for i, c := range series {
		if long {
			stopPrice := entryPrice * (1 - p.StopLossPercent)
			targetPrice := entryPrice * (1 + p.TakeProfitPercent)
			// Stop wins when both are breachable within the same
			// candle's range; the intrabar path is unknowable.
			switch {
			case c.Low <= stopPrice:
				closeTrade(i, stopPrice, model.ExitStopLoss)
			case c.High >= targetPrice:
				closeTrade(i, targetPrice, model.ExitTakeProfit)
			}
		}

		switch points[i].Signal {
		case model.SignalBuy:
			if !long {
				// Entry cost comes out of the allocated budget so a
				// full-fraction entry cannot overdraw cash.
				budget := p.MaxPositionFraction * cash
				cost := p.TransactionCostRate * budget
				entryPrice = c.Close
				size = (budget - cost) / entryPrice
				entrySpent = budget
				entryIndex = i
				cash -= budget
				long = true
			}
		case model.SignalSell:
			if long {
				closeTrade(i, c.Close, model.ExitSignalFlip)
			}
		}

		if long && i == len(series)-1 {
			closeTrade(i, c.Close, model.ExitEndOfData)
		}

		equity := cash
		if long {
			equity += size * c.Close
		}
		res.Equity = append(res.Equity, model.EquityPoint{
			Index:            i,
			Equity:           equity,
			CumulativeReturn: (equity/p.InitialCapital - 1) * 100,
		})
	}

	return res, nil
}
