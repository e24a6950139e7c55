package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trend-navigator/internal/api/binance"
	"trend-navigator/internal/backtest"
	"trend-navigator/internal/config"
	"trend-navigator/internal/model"
	"trend-navigator/internal/signal"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)
	log.Info().
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("CandleLimit", cfg.CandleLimit).
		Msg("Starting single backtest run")

	client := binance.NewClient(binance.ClientOptions{
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})

	series, err := client.GetCandles(ctx, cfg.Symbol, cfg.Interval, cfg.CandleLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch candles")
	}

	points, err := signal.ComputeSignals(series, signal.Params{
		NeighborCount:   cfg.NeighborCount,
		WindowSize:      cfg.WindowSize,
		SmoothingPeriod: cfg.SmoothingPeriod,
		MALength:        cfg.MALength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute signals")
	}

	res, err := backtest.Simulate(series, points, backtest.Params{
		InitialCapital:      cfg.InitialCapital,
		MaxPositionFraction: cfg.MaxPositionFraction,
		StopLossPercent:     cfg.StopLossPercent,
		TakeProfitPercent:   cfg.TakeProfitPercent,
		TransactionCostRate: cfg.TransactionCostRate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}

	metrics := backtest.ComputeMetrics(res.Equity, res.Trades, cfg.RiskFreeRate)

	for _, t := range res.Trades {
		log.Info().
			Int("entry_index", t.EntryIndex).
			Float64("entry_price", t.EntryPrice).
			Int("exit_index", t.ExitIndex).
			Float64("exit_price", t.ExitPrice).
			Str("exit_reason", string(t.ExitReason)).
			Float64("pnl", t.PnL).
			Float64("pnl_percent", t.PnLPercent).
			Msg("Trade")
	}

	fmt.Print(formatMetrics(series, metrics))
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// formatMetrics creates a human-readable summary of a backtest run
func formatMetrics(series model.Series, m model.PerformanceMetrics) string {
	output := "\n===== BACKTEST RESULTS =====\n"
	output += fmt.Sprintf("Candles: %d (%s to %s)\n",
		len(series),
		series[0].Timestamp.Format("2006-01-02"),
		series[len(series)-1].Timestamp.Format("2006-01-02"))
	output += fmt.Sprintf("Total trades: %d\n", m.TotalTrades)
	output += fmt.Sprintf("Total return: %.2f%%\n", m.TotalReturn)
	output += fmt.Sprintf("Win rate: %.2f%%\n", m.WinRate)
	output += fmt.Sprintf("Average win: %.2f%%\n", m.AvgWin)
	output += fmt.Sprintf("Average loss: %.2f%%\n", m.AvgLoss)
	output += fmt.Sprintf("Profit factor: %.2f\n", m.ProfitFactor)
	output += fmt.Sprintf("Maximum drawdown: %.2f%%\n", m.MaxDrawdown)
	output += fmt.Sprintf("Sortino ratio: %.2f\n", m.SortinoRatio)
	return output
}
