package optimizer

import (
	"fmt"

	"trend-navigator/internal/backtest"
	"trend-navigator/internal/model"
	"trend-navigator/internal/signal"
)

// ParameterSet is one point of the search space: the engine knobs plus the
// simulation knobs. It uniquely identifies a run.
type ParameterSet struct {
	Engine signal.Params   `json:"engine"`
	Sim    backtest.Params `json:"sim"`
}

// Space enumerates the discrete candidate values per knob. The four engine
// dimensions are required; risk dimensions may be left empty to pin the
// corresponding value from the base simulation params.
type Space struct {
	NeighborCounts   []int `json:"neighbor_counts"`
	WindowSizes      []int `json:"window_sizes"`
	SmoothingPeriods []int `json:"smoothing_periods"`
	MALengths        []int `json:"ma_lengths"`

	StopLossPercents   []float64 `json:"stop_loss_percents,omitempty"`
	TakeProfitPercents []float64 `json:"take_profit_percents,omitempty"`
	PositionFractions  []float64 `json:"position_fractions,omitempty"`
}

// grid is a Space with defaults applied, ready for mixed-radix indexing.
type grid struct {
	Space
	base backtest.Params
}

func newGrid(s Space, base backtest.Params) (grid, error) {
	if len(s.NeighborCounts) == 0 || len(s.WindowSizes) == 0 ||
		len(s.SmoothingPeriods) == 0 || len(s.MALengths) == 0 {
		return grid{}, fmt.Errorf("%w: every engine dimension needs at least one candidate value",
			model.ErrInvalidParameter)
	}
	if len(s.StopLossPercents) == 0 {
		s.StopLossPercents = []float64{base.StopLossPercent}
	}
	if len(s.TakeProfitPercents) == 0 {
		s.TakeProfitPercents = []float64{base.TakeProfitPercent}
	}
	if len(s.PositionFractions) == 0 {
		s.PositionFractions = []float64{base.MaxPositionFraction}
	}
	return grid{Space: s, base: base}, nil
}

// count is the size of the full Cartesian product.
func (g grid) count() int {
	return len(g.NeighborCounts) * len(g.WindowSizes) * len(g.SmoothingPeriods) * len(g.MALengths) *
		len(g.StopLossPercents) * len(g.TakeProfitPercents) * len(g.PositionFractions)
}

// at decodes a flat index into a parameter set. The dimension order is
// fixed, which keeps stride truncation and seeded sampling reproducible.
func (g grid) at(idx int) ParameterSet {
	pickInt := func(vals []int) int {
		v := vals[idx%len(vals)]
		idx /= len(vals)
		return v
	}
	pickFloat := func(vals []float64) float64 {
		v := vals[idx%len(vals)]
		idx /= len(vals)
		return v
	}

	engine := signal.Params{
		NeighborCount:   pickInt(g.NeighborCounts),
		WindowSize:      pickInt(g.WindowSizes),
		SmoothingPeriod: pickInt(g.SmoothingPeriods),
		MALength:        pickInt(g.MALengths),
	}
	sim := g.base
	sim.StopLossPercent = pickFloat(g.StopLossPercents)
	sim.TakeProfitPercent = pickFloat(g.TakeProfitPercents)
	sim.MaxPositionFraction = pickFloat(g.PositionFractions)

	return ParameterSet{Engine: engine, Sim: sim}
}

func (g grid) all() []ParameterSet {
	sets := make([]ParameterSet, g.count())
	for i := range sets {
		sets[i] = g.at(i)
	}
	return sets
}
