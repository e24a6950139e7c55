package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"trend-navigator/internal/optimizer"
)

// WriteCSV writes the ranked result collection as a tabular report, one row
// per parameter set with a column per parameter and metric field.
func WriteCSV(path string, results []optimizer.OptimizationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"neighbor_count", "window_size", "smoothing_period", "ma_length",
		"max_position_fraction", "stop_loss_percent", "take_profit_percent", "transaction_cost_rate",
		"total_return", "max_drawdown", "sortino_ratio", "win_rate",
		"total_trades", "avg_win", "avg_loss", "profit_factor",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, res := range results {
		row := []string{
			strconv.Itoa(res.Params.Engine.NeighborCount),
			strconv.Itoa(res.Params.Engine.WindowSize),
			strconv.Itoa(res.Params.Engine.SmoothingPeriod),
			strconv.Itoa(res.Params.Engine.MALength),
			formatFloat(res.Params.Sim.MaxPositionFraction),
			formatFloat(res.Params.Sim.StopLossPercent),
			formatFloat(res.Params.Sim.TakeProfitPercent),
			formatFloat(res.Params.Sim.TransactionCostRate),
			formatFloat(res.Metrics.TotalReturn),
			formatFloat(res.Metrics.MaxDrawdown),
			formatFloat(res.Metrics.SortinoRatio),
			formatFloat(res.Metrics.WinRate),
			strconv.Itoa(res.Metrics.TotalTrades),
			formatFloat(res.Metrics.AvgWin),
			formatFloat(res.Metrics.AvgLoss),
			formatFloat(res.Metrics.ProfitFactor),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
