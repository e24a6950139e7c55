package signal

import (
	"fmt"
	"math"
	"sort"

	"trend-navigator/internal/calculate"
	"trend-navigator/internal/model"
)

// smoothTaps is the fixed tap count of the weighted MA applied to the raw
// nearest-neighbor value.
const smoothTaps = 5

// Params holds the trend engine knobs.
type Params struct {
	NeighborCount   int `json:"neighbor_count"`   // K nearest window values averaged per bar
	WindowSize      int `json:"window_size"`      // lookback window for the distance search
	SmoothingPeriod int `json:"smoothing_period"` // SMA length applied to the raw value
	MALength        int `json:"ma_length"`        // input smoothing for value/target series
}

func (p Params) validate() error {
	if p.NeighborCount < 1 {
		return fmt.Errorf("%w: neighbor count %d, must be positive", model.ErrInvalidParameter, p.NeighborCount)
	}
	if p.WindowSize < 1 {
		return fmt.Errorf("%w: window size %d, must be positive", model.ErrInvalidParameter, p.WindowSize)
	}
	if p.SmoothingPeriod < 1 {
		return fmt.Errorf("%w: smoothing period %d, must be positive", model.ErrInvalidParameter, p.SmoothingPeriod)
	}
	if p.MALength < 1 {
		return fmt.Errorf("%w: ma length %d, must be positive", model.ErrInvalidParameter, p.MALength)
	}
	return nil
}

// ComputeSignals transforms a candle series into one IndicatorPoint per
// candle. The raw value at index i is the mean of the K window values
// nearest to the EMA target; a weighted MA smooths it and buy/sell signals
// fire on down-to-up and up-to-down flips of the smoothed slope. Pure
// function of its inputs.
func ComputeSignals(series model.Series, p Params) ([]model.IndicatorPoint, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(series) <= p.WindowSize {
		return nil, fmt.Errorf("%w: %d candles, need more than window size %d",
			model.ErrInsufficientData, len(series), p.WindowSize)
	}

	valueSeries := calculate.SMASeries(series.Midpoints(), p.MALength)
	targetSeries := calculate.EMASeries(series.Closes(), p.MALength)

	raw := make([]float64, len(series))
	for i := range raw {
		raw[i] = math.NaN()
	}
	for i := p.WindowSize; i < len(series); i++ {
		raw[i] = meanOfKClosest(valueSeries, targetSeries[i], i, p.WindowSize, p.NeighborCount)
	}

	smoothed := calculate.WeightedSeries(raw, smoothTaps)
	rawMA := calculate.SMASeries(raw, p.SmoothingPeriod)

	points := make([]model.IndicatorPoint, len(series))
	for i := range points {
		points[i] = model.IndicatorPoint{
			RawValue:      raw[i],
			SmoothedValue: smoothed[i],
			RawMA:         rawMA[i],
			Direction:     model.TrendNeutral,
			Signal:        model.SignalHold,
		}
	}

	// Direction needs two consecutive defined smoothed values. A
	// non-positive smoothed value stays neutral regardless of slope.
	for i := 1; i < len(points); i++ {
		cur, prev := smoothed[i], smoothed[i-1]
		if math.IsNaN(cur) || math.IsNaN(prev) || cur <= 0 {
			continue
		}
		switch {
		case cur > prev:
			points[i].Direction = model.TrendUp
		case cur < prev:
			points[i].Direction = model.TrendDown
		}
	}

	for i := 1; i < len(points); i++ {
		switch {
		case points[i-1].Direction == model.TrendDown && points[i].Direction == model.TrendUp:
			points[i].Signal = model.SignalBuy
		case points[i-1].Direction == model.TrendUp && points[i].Direction == model.TrendDown:
			points[i].Signal = model.SignalSell
		}
	}

	return points, nil
}

// meanOfKClosest averages the k values in the window strictly before idx
// that are nearest to target by absolute distance. Equal distances keep the
// older value (stable sort by original index) so repeat runs on identical
// input are byte-identical. Undefined window entries are skipped; returns
// NaN when the window holds no defined values.
func meanOfKClosest(values []float64, target float64, idx, window, k int) float64 {
	type candidate struct {
		distance float64
		value    float64
	}
	candidates := make([]candidate, 0, window)
	for j := idx - window; j < idx; j++ {
		if j < 0 || math.IsNaN(values[j]) {
			continue
		}
		candidates = append(candidates, candidate{
			distance: math.Abs(target - values[j]),
			value:    values[j],
		})
	}
	if len(candidates) == 0 {
		return math.NaN()
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].distance < candidates[b].distance
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	sum := 0.0
	for _, c := range candidates[:k] {
		sum += c.value
	}
	return sum / float64(k)
}
