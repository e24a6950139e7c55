package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trend-navigator/internal/api/binance"
	"trend-navigator/internal/backtest"
	"trend-navigator/internal/config"
	"trend-navigator/internal/database"
	"trend-navigator/internal/optimizer"
	"trend-navigator/internal/report"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandling(cancel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Trend Navigator parameter sweep")
	printConfig(cfg)

	client := binance.NewClient(binance.ClientOptions{
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})

	log.Info().Msg("Fetching candle series...")
	series, err := client.GetCandles(ctx, cfg.Symbol, cfg.Interval, cfg.CandleLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch candles")
	}
	log.Info().
		Int("candles", len(series)).
		Time("first", series[0].Timestamp).
		Time("last", series[len(series)-1].Timestamp).
		Msg("Candle series loaded")

	opt := optimizer.New(optimizer.Options{
		MaxCombinations: cfg.MaxCombinations,
		Mode:            optimizer.Mode(cfg.OptimizeMode),
		Workers:         cfg.Workers,
		Seed:            cfg.RandomSeed,
		RiskFreeRate:    cfg.RiskFreeRate,
		Base: backtest.Params{
			InitialCapital:      cfg.InitialCapital,
			MaxPositionFraction: cfg.MaxPositionFraction,
			StopLossPercent:     cfg.StopLossPercent,
			TakeProfitPercent:   cfg.TakeProfitPercent,
			TransactionCostRate: cfg.TransactionCostRate,
		},
	})

	space := optimizer.Space{
		NeighborCounts:   cfg.SweepNeighborCounts,
		WindowSizes:      cfg.SweepWindowSizes,
		SmoothingPeriods: cfg.SweepSmoothingPeriods,
		MALengths:        cfg.SweepMALengths,
	}

	results, err := opt.Optimize(ctx, series, space)
	if err != nil {
		log.Fatal().Err(err).Msg("Parameter sweep failed")
	}

	best, err := results.Best(cfg.RankMetric, cfg.TopN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to rank results")
	}
	printBest(cfg.RankMetric, best)

	if cfg.ReportPath != "" {
		ranked, err := results.Best(cfg.RankMetric, 0)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to rank results for report")
		}
		if err := report.WriteCSV(cfg.ReportPath, ranked); err != nil {
			log.Error().Err(err).Str("path", cfg.ReportPath).Msg("Failed to write CSV report")
		} else {
			log.Info().Str("path", cfg.ReportPath).Msg("CSV report written")
		}
	}

	if cfg.DatabaseURL != "" {
		store, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to database")
		} else {
			defer store.Close()
			if err := store.SaveResults(cfg.Symbol, cfg.Interval, results.All()); err != nil {
				log.Error().Err(err).Msg("Failed to persist results")
			} else {
				log.Info().Int("rows", results.Len()).Msg("Results persisted")
			}
		}
	}
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, finishing in-flight work...")
		cancel()
	}()
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

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("CandleLimit", cfg.CandleLimit).
		Str("OptimizeMode", cfg.OptimizeMode).
		Int("MaxCombinations", cfg.MaxCombinations).
		Int("Workers", cfg.Workers).
		Int64("RandomSeed", cfg.RandomSeed).
		Str("RankMetric", cfg.RankMetric).
		Int("TopN", cfg.TopN).
		Float64("InitialCapital", cfg.InitialCapital).
		Float64("StopLossPercent", cfg.StopLossPercent).
		Float64("TakeProfitPercent", cfg.TakeProfitPercent).
		Float64("TransactionCostRate", cfg.TransactionCostRate).
		Msg("Configuration loaded")
}

// printBest logs the ranked leaderboard
func printBest(metric string, best []optimizer.OptimizationResult) {
	for i, res := range best {
		value, _ := res.Metrics.Field(metric)
		log.Info().
			Int("rank", i+1).
			Float64(metric, value).
			Int("neighbor_count", res.Params.Engine.NeighborCount).
			Int("window_size", res.Params.Engine.WindowSize).
			Int("smoothing_period", res.Params.Engine.SmoothingPeriod).
			Int("ma_length", res.Params.Engine.MALength).
			Float64("total_return", res.Metrics.TotalReturn).
			Float64("win_rate", res.Metrics.WinRate).
			Int("total_trades", res.Metrics.TotalTrades).
			Msg("Sweep result")
	}
}
