package model

import "math"

// TrendDirection classifies the slope of the smoothed indicator.
type TrendDirection int

const (
	TrendNeutral TrendDirection = iota
	TrendUp
	TrendDown
)

func (d TrendDirection) String() string {
	switch d {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "neutral"
	}
}

// Signal is a discrete trade instruction derived from trend flips.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	default:
		return "hold"
	}
}

// IndicatorPoint holds the per-candle output of the trend signal engine.
// Values inside the warm-up span are NaN, never zero; consumers must check
// the Has helpers before treating a value as meaningful.
type IndicatorPoint struct {
	RawValue      float64
	SmoothedValue float64
	RawMA         float64
	Direction     TrendDirection
	Signal        Signal
}

// HasRaw reports whether the raw nearest-neighbor value is defined.
func (p IndicatorPoint) HasRaw() bool { return !math.IsNaN(p.RawValue) }

// HasSmoothed reports whether the weighted-MA smoothed value is defined.
func (p IndicatorPoint) HasSmoothed() bool { return !math.IsNaN(p.SmoothedValue) }

// HasRawMA reports whether the SMA of the raw value is defined.
func (p IndicatorPoint) HasRawMA() bool { return !math.IsNaN(p.RawMA) }
