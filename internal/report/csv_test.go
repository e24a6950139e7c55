package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"trend-navigator/internal/backtest"
	"trend-navigator/internal/model"
	"trend-navigator/internal/optimizer"
	"trend-navigator/internal/signal"
)

func TestWriteCSV(t *testing.T) {
	results := []optimizer.OptimizationResult{
		{
			Params: optimizer.ParameterSet{
				Engine: signal.Params{NeighborCount: 3, WindowSize: 30, SmoothingPeriod: 50, MALength: 5},
				Sim: backtest.Params{
					InitialCapital:      10000,
					MaxPositionFraction: 1,
					StopLossPercent:     0.05,
					TakeProfitPercent:   0.15,
					TransactionCostRate: 0.001,
				},
			},
			Metrics: model.PerformanceMetrics{TotalReturn: 42.5, WinRate: 60, TotalTrades: 10, ProfitFactor: 2.1},
		},
		{
			Params: optimizer.ParameterSet{
				Engine: signal.Params{NeighborCount: 5, WindowSize: 40, SmoothingPeriod: 100, MALength: 10},
			},
			Metrics: model.PerformanceMetrics{TotalReturn: 10},
		},
	}

	path := filepath.Join(t.TempDir(), "sweep.csv")
	if err := WriteCSV(path, results); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "neighbor_count" || rows[0][len(rows[0])-1] != "profit_factor" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "3" || rows[1][8] != "42.5" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
}
