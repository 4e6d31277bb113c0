package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily bars of one symbol over [Start, End).
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	Start     time.Time
	End       time.Time
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Empty reports whether the series has no bars.
func (s *PriceSeries) Empty() bool { return s.Len() == 0 }

// Clone returns a deep copy so callers can transform bars without touching the original.
func (s *PriceSeries) Clone() *PriceSeries {
	if s == nil {
		return &PriceSeries{}
	}
	c := *s
	c.Bars = make([]OHLCV, len(s.Bars))
	copy(c.Bars, s.Bars)
	return &c
}

// Closes extracts the close prices in order.
func (s *PriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
