package optimizer

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trend-navigator/internal/backtest"
	"trend-navigator/internal/model"
	"trend-navigator/internal/signal"
)

// Mode selects how the parameter space is enumerated.
type Mode string

const (
	// ModeExhaustive walks the full Cartesian product, stride-truncated
	// deterministically when it exceeds the combination cap.
	ModeExhaustive Mode = "exhaustive"
	// ModeFocusedRandom draws the cap's worth of distinct samples from a
	// seeded generator, reproducible per seed.
	ModeFocusedRandom Mode = "focused-random"
)

const (
	defaultMaxCombinations = 500
	progressEvery          = 50
)

// Options configures a sweep.
type Options struct {
	MaxCombinations int
	Mode            Mode
	Workers         int   // defaults to NumCPU
	Seed            int64 // focused-random sampling seed
	RiskFreeRate    float64
	Base            backtest.Params // capital, cost and risk defaults
}

// OptimizationResult pairs a parameter set with the metrics it produced.
type OptimizationResult struct {
	Params  ParameterSet             `json:"params"`
	Metrics model.PerformanceMetrics `json:"metrics"`
}

// Optimizer fans the signal/simulate/metrics pipeline out over a parameter
// space on a fixed worker pool. The candle series is shared read-only; the
// only mutable state is the result collection, appended to by a single
// aggregator goroutine.
type Optimizer struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an optimizer, applying worker and cap defaults.
func New(opts Options) *Optimizer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxCombinations <= 0 {
		opts.MaxCombinations = defaultMaxCombinations
	}
	if opts.Mode == "" {
		opts.Mode = ModeExhaustive
	}
	return &Optimizer{
		opts:   opts,
		logger: log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize evaluates the space against the series and collects one result
// per successful combination. A failed combination is logged and skipped,
// never aborting the sweep. Cancelling the context stops dispatching new
// work; in-flight evaluations still complete and their results are kept.
func (o *Optimizer) Optimize(ctx context.Context, series model.Series, space Space) (*Results, error) {
	sets, err := o.enumerate(space)
	if err != nil {
		return nil, err
	}

	o.logger.Info().
		Int("combinations", len(sets)).
		Int("workers", o.opts.Workers).
		Str("mode", string(o.opts.Mode)).
		Msg("Starting parameter sweep")

	jobs := make(chan ParameterSet)
	completed := make(chan OptimizationResult)

	var wg sync.WaitGroup
	for w := 0; w < o.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ps := range jobs {
				res, err := Evaluate(series, ps, o.opts.RiskFreeRate)
				if err != nil {
					o.logger.Warn().Err(err).
						Int("neighbor_count", ps.Engine.NeighborCount).
						Int("window_size", ps.Engine.WindowSize).
						Msg("Skipping parameter combination")
					continue
				}
				completed <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ps := range sets {
			select {
			case jobs <- ps:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(completed)
	}()

	results := NewResults()
	for res := range completed {
		results.append(res)
		if results.Len()%progressEvery == 0 {
			o.logger.Info().
				Int("completed", results.Len()).
				Int("total", len(sets)).
				Msg("Sweep progress")
		}
	}

	o.logger.Info().
		Int("evaluated", results.Len()).
		Int("skipped", len(sets)-results.Len()).
		Msg("Parameter sweep complete")

	return results, nil
}

// enumerate materializes the parameter sets to evaluate according to the
// configured mode and combination cap.
func (o *Optimizer) enumerate(space Space) ([]ParameterSet, error) {
	g, err := newGrid(space, o.opts.Base)
	if err != nil {
		return nil, err
	}

	total := g.count()
	limit := o.opts.MaxCombinations

	switch o.opts.Mode {
	case ModeExhaustive:
		if total <= limit {
			return g.all(), nil
		}
		// Deterministic stride sampling across the whole product.
		sets := make([]ParameterSet, 0, limit)
		for k := 0; k < limit; k++ {
			sets = append(sets, g.at(k*total/limit))
		}
		return sets, nil

	case ModeFocusedRandom:
		if total <= limit {
			return g.all(), nil
		}
		rng := rand.New(rand.NewSource(o.opts.Seed))
		seen := make(map[int]struct{}, limit)
		sets := make([]ParameterSet, 0, limit)
		for len(sets) < limit {
			idx := rng.Intn(total)
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			sets = append(sets, g.at(idx))
		}
		return sets, nil

	default:
		return nil, fmt.Errorf("%w: optimization mode %q", model.ErrInvalidParameter, o.opts.Mode)
	}
}

// Evaluate runs one independent pipeline unit: signals, simulation, metrics.
func Evaluate(series model.Series, ps ParameterSet, riskFreeRate float64) (OptimizationResult, error) {
	points, err := signal.ComputeSignals(series, ps.Engine)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("compute signals: %w", err)
	}
	simRes, err := backtest.Simulate(series, points, ps.Sim)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("simulate: %w", err)
	}
	return OptimizationResult{
		Params:  ps,
		Metrics: backtest.ComputeMetrics(simRes.Equity, simRes.Trades, riskFreeRate),
	}, nil
}
