package model

import (
	"fmt"
	"time"
)

// Candle represents a single OHLCV price candle.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series is a strictly time-ordered candle sequence. It is constructed once
// from external data and borrowed read-only by every downstream component.
type Series []Candle

// NewSeries validates ordering, timestamp uniqueness and price sanity.
func NewSeries(candles []Candle) (Series, error) {
	for i, c := range candles {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return nil, fmt.Errorf("%w: non-positive price at index %d", ErrInvalidParameter, i)
		}
		if c.High < c.Low {
			return nil, fmt.Errorf("%w: high %.8f below low %.8f at index %d", ErrInvalidParameter, c.High, c.Low, i)
		}
		if c.Volume < 0 {
			return nil, fmt.Errorf("%w: negative volume at index %d", ErrInvalidParameter, i)
		}
		if i > 0 && !candles[i-1].Timestamp.Before(c.Timestamp) {
			return nil, fmt.Errorf("%w: timestamps not strictly increasing at index %d", ErrInvalidParameter, i)
		}
	}
	return Series(candles), nil
}

// Closes extracts the close price column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Midpoints extracts the (high+low)/2 column.
func (s Series) Midpoints() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = (c.High + c.Low) / 2
	}
	return out
}
