package model

import (
	"errors"
	"testing"
	"time"
)

func validCandles(n int) []Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, n)
	for i := range candles {
		candles[i] = Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      100,
			High:      101,
			Low:       99,
			Close:     100.5,
			Volume:    1000,
		}
	}
	return candles
}

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Candle)
		wantErr bool
	}{
		{"valid", func([]Candle) {}, false},
		{"duplicate timestamp", func(c []Candle) { c[2].Timestamp = c[1].Timestamp }, true},
		{"out of order", func(c []Candle) { c[2].Timestamp = c[0].Timestamp.Add(-time.Hour) }, true},
		{"non-positive close", func(c []Candle) { c[1].Close = 0 }, true},
		{"high below low", func(c []Candle) { c[1].High = 98 }, true},
		{"negative volume", func(c []Candle) { c[1].Volume = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := validCandles(5)
			tt.mutate(candles)
			_, err := NewSeries(candles)
			if tt.wantErr && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSeriesColumns(t *testing.T) {
	series, err := NewSeries(validCandles(3))
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}

	for _, c := range series.Closes() {
		if c != 100.5 {
			t.Errorf("close column = %v, want 100.5", c)
		}
	}
	for _, m := range series.Midpoints() {
		if m != 100 {
			t.Errorf("midpoint column = %v, want 100", m)
		}
	}
}

func TestPerformanceMetricsField(t *testing.T) {
	m := PerformanceMetrics{
		TotalReturn:  12.5,
		MaxDrawdown:  4,
		SortinoRatio: 1.5,
		WinRate:      60,
		TotalTrades:  8,
		AvgWin:       3,
		AvgLoss:      -2,
		ProfitFactor: 2.5,
	}

	// Every published metric name resolves.
	for _, name := range MetricNames {
		if _, err := m.Field(name); err != nil {
			t.Errorf("Field(%q) failed: %v", name, err)
		}
	}

	if v, _ := m.Field("total_trades"); v != 8 {
		t.Errorf("total_trades = %v, want 8", v)
	}

	if _, err := m.Field("calmar_ratio"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}
