package calculate

import "math"

// Rolling moving-average primitives shared by the trend signal engine.
// Indices without enough history hold NaN rather than zero, so a warm-up
// value can never be mistaken for a real one. A window that still contains
// NaN input stays NaN.

// SMASeries computes a simple moving average of the given period.
func SMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period < 1 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		defined := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				defined = false
				break
			}
			sum += values[j]
		}
		if defined {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMASeries computes an exponential moving average with the standard
// 2/(period+1) multiplier, seeded from the first value so the series is
// defined from index 0.
func EMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period < 1 || len(values) == 0 {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}

// WeightedSeries computes a linearly weighted moving average over a fixed
// number of taps, the most recent sample weighted highest (weights 1..taps
// normalized to sum 1).
func WeightedSeries(values []float64, taps int) []float64 {
	out := nanSeries(len(values))
	if taps < 1 {
		return out
	}
	weightSum := float64(taps*(taps+1)) / 2
	for i := taps - 1; i < len(values); i++ {
		sum := 0.0
		defined := true
		for j := 0; j < taps; j++ {
			v := values[i-taps+1+j]
			if math.IsNaN(v) {
				defined = false
				break
			}
			sum += v * float64(j+1)
		}
		if defined {
			out[i] = sum / weightSum
		}
	}
	return out
}

// Mean computes a simple average, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev computes the population standard deviation around the given mean.
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
