package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"trend-navigator/internal/optimizer"
)

// Store persists sweep results to PostgreSQL for the external reporting
// surface. The evaluation core never touches it.
type Store struct {
	*sql.DB
}

// New opens a connection and ensures the results table exists.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS optimization_results (
			id SERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			neighbor_count INT NOT NULL,
			window_size INT NOT NULL,
			smoothing_period INT NOT NULL,
			ma_length INT NOT NULL,
			max_position_fraction DOUBLE PRECISION NOT NULL,
			stop_loss_percent DOUBLE PRECISION NOT NULL,
			take_profit_percent DOUBLE PRECISION NOT NULL,
			transaction_cost_rate DOUBLE PRECISION NOT NULL,
			total_return DOUBLE PRECISION NOT NULL,
			max_drawdown DOUBLE PRECISION NOT NULL,
			sortino_ratio DOUBLE PRECISION NOT NULL,
			win_rate DOUBLE PRECISION NOT NULL,
			total_trades INT NOT NULL,
			avg_win DOUBLE PRECISION NOT NULL,
			avg_loss DOUBLE PRECISION NOT NULL,
			profit_factor DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// SaveResults inserts one row per evaluated parameter set.
func (s *Store) SaveResults(symbol, interval string, results []optimizer.OptimizationResult) error {
	stmt, err := s.Prepare(`
		INSERT INTO optimization_results (
			symbol, interval,
			neighbor_count, window_size, smoothing_period, ma_length,
			max_position_fraction, stop_loss_percent, take_profit_percent, transaction_cost_rate,
			total_return, max_drawdown, sortino_ratio, win_rate,
			total_trades, avg_win, avg_loss, profit_factor,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, res := range results {
		_, err := stmt.Exec(
			symbol, interval,
			res.Params.Engine.NeighborCount,
			res.Params.Engine.WindowSize,
			res.Params.Engine.SmoothingPeriod,
			res.Params.Engine.MALength,
			res.Params.Sim.MaxPositionFraction,
			res.Params.Sim.StopLossPercent,
			res.Params.Sim.TakeProfitPercent,
			res.Params.Sim.TransactionCostRate,
			res.Metrics.TotalReturn,
			res.Metrics.MaxDrawdown,
			res.Metrics.SortinoRatio,
			res.Metrics.WinRate,
			res.Metrics.TotalTrades,
			res.Metrics.AvgWin,
			res.Metrics.AvgLoss,
			res.Metrics.ProfitFactor,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return nil
}
