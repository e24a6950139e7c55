package optimizer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"trend-navigator/internal/backtest"
	"trend-navigator/internal/model"
	"trend-navigator/internal/signal"
)

func sweepEngineParams(i int) signal.Params {
	return signal.Params{NeighborCount: i + 2, WindowSize: 5, SmoothingPeriod: 2, MALength: 2}
}

func sweepSeries(n int) model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		p := 100 + float64(i)*0.5 + math.Sin(float64(i)/4)*6
		candles[i] = model.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      p,
			High:      p + 1,
			Low:       p - 1,
			Close:     p,
			Volume:    1000,
		}
	}
	return model.Series(candles)
}

func baseParams() backtest.Params {
	return backtest.Params{
		InitialCapital:      10000,
		MaxPositionFraction: 1.0,
		StopLossPercent:     0.1,
		TakeProfitPercent:   0.2,
		TransactionCostRate: 0.001,
	}
}

func smallSpace() Space {
	return Space{
		NeighborCounts:   []int{2, 3},
		WindowSizes:      []int{5},
		SmoothingPeriods: []int{2, 3},
		MALengths:        []int{2},
	}
}

func TestOptimizeExhaustiveSmallSpace(t *testing.T) {
	opt := New(Options{
		MaxCombinations: 100,
		Mode:            ModeExhaustive,
		Workers:         4,
		Base:            baseParams(),
	})

	results, err := opt.Optimize(context.Background(), sweepSeries(80), smallSpace())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if results.Len() != 4 {
		t.Fatalf("expected 4 results for a 4-combination space, got %d", results.Len())
	}

	seen := make(map[ParameterSet]struct{})
	for _, res := range results.All() {
		if _, dup := seen[res.Params]; dup {
			t.Errorf("duplicate parameter set %+v", res.Params)
		}
		seen[res.Params] = struct{}{}
	}
}

func TestOptimizeWorkerCountInvariance(t *testing.T) {
	series := sweepSeries(100)
	space := Space{
		NeighborCounts:   []int{2, 3, 5},
		WindowSizes:      []int{5, 10},
		SmoothingPeriods: []int{2, 5},
		MALengths:        []int{2, 3},
	}

	run := func(workers int) map[ParameterSet]model.PerformanceMetrics {
		opt := New(Options{
			MaxCombinations: 100,
			Mode:            ModeExhaustive,
			Workers:         workers,
			Base:            baseParams(),
		})
		results, err := opt.Optimize(context.Background(), series, space)
		if err != nil {
			t.Fatalf("Optimize with %d workers failed: %v", workers, err)
		}
		byParams := make(map[ParameterSet]model.PerformanceMetrics, results.Len())
		for _, res := range results.All() {
			byParams[res.Params] = res.Metrics
		}
		return byParams
	}

	single := run(1)
	parallel := run(8)

	if len(single) != len(parallel) {
		t.Fatalf("result counts differ: 1 worker %d vs 8 workers %d", len(single), len(parallel))
	}
	for ps, m := range single {
		got, ok := parallel[ps]
		if !ok {
			t.Fatalf("parameter set %+v missing from parallel run", ps)
		}
		if got != m {
			t.Errorf("metrics differ for %+v: %+v vs %+v", ps, m, got)
		}
	}
}

func TestOptimizeExhaustiveStrideTruncation(t *testing.T) {
	space := Space{
		NeighborCounts:   []int{2, 3, 4},
		WindowSizes:      []int{5, 8, 10},
		SmoothingPeriods: []int{2, 3, 4},
		MALengths:        []int{2, 3, 4},
	}

	opt := New(Options{
		MaxCombinations: 10,
		Mode:            ModeExhaustive,
		Workers:         2,
		Base:            baseParams(),
	})

	first, err := opt.enumerate(space)
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if len(first) != 10 {
		t.Fatalf("expected the cap's worth of combinations, got %d", len(first))
	}

	second, _ := opt.enumerate(space)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("stride truncation must be deterministic, index %d differs", i)
		}
	}

	seen := make(map[ParameterSet]struct{})
	for _, ps := range first {
		if _, dup := seen[ps]; dup {
			t.Errorf("stride sampling produced duplicate %+v", ps)
		}
		seen[ps] = struct{}{}
	}
}

func TestOptimizeFocusedRandomReproducible(t *testing.T) {
	space := Space{
		NeighborCounts:   []int{2, 3, 4},
		WindowSizes:      []int{5, 8, 10},
		SmoothingPeriods: []int{2, 3, 4},
		MALengths:        []int{2, 3, 4},
	}

	enumerate := func(seed int64) []ParameterSet {
		opt := New(Options{
			MaxCombinations: 10,
			Mode:            ModeFocusedRandom,
			Seed:            seed,
			Base:            baseParams(),
		})
		sets, err := opt.enumerate(space)
		if err != nil {
			t.Fatalf("enumerate failed: %v", err)
		}
		return sets
	}

	first := enumerate(42)
	second := enumerate(42)
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("expected 10 sampled combinations, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed must reproduce the same sample, index %d differs", i)
		}
	}

	other := enumerate(7)
	same := true
	for i := range first {
		if first[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds produced the identical sample")
	}
}

func TestOptimizeEmptyDimension(t *testing.T) {
	opt := New(Options{Base: baseParams()})
	_, err := opt.Optimize(context.Background(), sweepSeries(50), Space{
		NeighborCounts: []int{2},
		WindowSizes:    []int{5},
		// SmoothingPeriods and MALengths missing
	})
	if !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for empty dimension, got %v", err)
	}
}

func TestOptimizeUnknownMode(t *testing.T) {
	opt := New(Options{Mode: Mode("genetic"), Base: baseParams()})
	_, err := opt.Optimize(context.Background(), sweepSeries(50), smallSpace())
	if !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown mode, got %v", err)
	}
}

func TestOptimizeSkipsFailingCombinations(t *testing.T) {
	// Window 60 exceeds the 50-candle series, so half the grid fails with
	// InsufficientData; the sweep must keep the valid half.
	space := Space{
		NeighborCounts:   []int{2},
		WindowSizes:      []int{5, 60},
		SmoothingPeriods: []int{2},
		MALengths:        []int{2},
	}
	opt := New(Options{MaxCombinations: 100, Workers: 2, Base: baseParams()})

	results, err := opt.Optimize(context.Background(), sweepSeries(50), space)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if results.Len() != 1 {
		t.Fatalf("expected 1 surviving result, got %d", results.Len())
	}
	if results.All()[0].Params.Engine.WindowSize != 5 {
		t.Errorf("the surviving combination should be the valid one")
	}
}

func TestResultsBest(t *testing.T) {
	results := NewResults()
	for i, ret := range []float64{5, 20, 10} {
		results.append(OptimizationResult{
			Params:  ParameterSet{Engine: sweepEngineParams(i)},
			Metrics: model.PerformanceMetrics{TotalReturn: ret},
		})
	}

	best, err := results.Best("total_return", 2)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 ranked results, got %d", len(best))
	}
	if best[0].Metrics.TotalReturn != 20 || best[1].Metrics.TotalReturn != 10 {
		t.Errorf("ranking wrong: %v, %v", best[0].Metrics.TotalReturn, best[1].Metrics.TotalReturn)
	}

	if _, err := results.Best("sharpe", 5); !errors.Is(err, model.ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestResultsBestTiesKeepInsertionOrder(t *testing.T) {
	results := NewResults()
	for i := 0; i < 3; i++ {
		results.append(OptimizationResult{
			Params:  ParameterSet{Engine: sweepEngineParams(i)},
			Metrics: model.PerformanceMetrics{TotalReturn: 10},
		})
	}

	best, err := results.Best("total_return", 0)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	for i, res := range best {
		if res.Params.Engine.NeighborCount != i+2 {
			t.Errorf("tie at rank %d broke insertion order", i)
		}
	}
}
