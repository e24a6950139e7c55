package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration. The evaluation core never
// reads the environment; everything it needs is passed down from here as
// explicit parameter structs.
type Config struct {
	// Market data
	Symbol         string
	Interval       string
	CandleLimit    int
	RequestTimeout int // seconds

	// Default engine knobs (single backtest run)
	NeighborCount   int
	WindowSize      int
	SmoothingPeriod int
	MALength        int

	// Simulation knobs
	InitialCapital      float64
	MaxPositionFraction float64
	StopLossPercent     float64
	TakeProfitPercent   float64
	TransactionCostRate float64
	RiskFreeRate        float64

	// Sweep knobs
	OptimizeMode    string
	MaxCombinations int
	Workers         int
	RandomSeed      int64
	RankMetric      string
	TopN            int

	// Sweep ranges
	SweepNeighborCounts   []int
	SweepWindowSizes      []int
	SweepSmoothingPeriods []int
	SweepMALengths        []int

	// External sinks (optional)
	ReportPath  string
	DatabaseURL string

	LogLevel string
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		Symbol:         getEnvWithDefault("SYMBOL", "BTCUSDT"),
		Interval:       getEnvWithDefault("INTERVAL", "1d"),
		CandleLimit:    getEnvIntWithDefault("CANDLE_LIMIT", 500),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),

		NeighborCount:   getEnvIntWithDefault("NEIGHBOR_COUNT", 3),
		WindowSize:      getEnvIntWithDefault("WINDOW_SIZE", 30),
		SmoothingPeriod: getEnvIntWithDefault("SMOOTHING_PERIOD", 50),
		MALength:        getEnvIntWithDefault("MA_LENGTH", 5),

		InitialCapital:      getEnvFloatWithDefault("INITIAL_CAPITAL", 10000),
		MaxPositionFraction: getEnvFloatWithDefault("MAX_POSITION_FRACTION", 1.0),
		StopLossPercent:     getEnvFloatWithDefault("STOP_LOSS_PERCENT", 0.05),
		TakeProfitPercent:   getEnvFloatWithDefault("TAKE_PROFIT_PERCENT", 0.15),
		TransactionCostRate: getEnvFloatWithDefault("TRANSACTION_COST_RATE", 0.001),
		RiskFreeRate:        getEnvFloatWithDefault("RISK_FREE_RATE", 0),

		OptimizeMode:    getEnvWithDefault("OPTIMIZE_MODE", "exhaustive"),
		MaxCombinations: getEnvIntWithDefault("MAX_COMBINATIONS", 500),
		Workers:         getEnvIntWithDefault("WORKERS", 0), // 0 = NumCPU
		RandomSeed:      int64(getEnvIntWithDefault("RANDOM_SEED", 42)),
		RankMetric:      getEnvWithDefault("RANK_METRIC", "total_return"),
		TopN:            getEnvIntWithDefault("TOP_N", 10),

		SweepNeighborCounts:   getEnvIntSliceWithDefault("SWEEP_NEIGHBOR_COUNTS", []int{2, 3, 5, 8, 13}),
		SweepWindowSizes:      getEnvIntSliceWithDefault("SWEEP_WINDOW_SIZES", []int{10, 20, 30, 40, 60}),
		SweepSmoothingPeriods: getEnvIntSliceWithDefault("SWEEP_SMOOTHING_PERIODS", []int{10, 30, 50, 100, 150}),
		SweepMALengths:        getEnvIntSliceWithDefault("SWEEP_MA_LENGTHS", []int{2, 5, 10, 15, 20}),

		ReportPath:  os.Getenv("REPORT_PATH"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvIntSliceWithDefault parses comma-separated integers, e.g. "2,3,5".
// Malformed entries fall back to the default list wholesale.
func getEnvIntSliceWithDefault(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		intValue, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, intValue)
	}
	return out
}
