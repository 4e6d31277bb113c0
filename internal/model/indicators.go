package model

// IndicatorSeries holds indicator values aligned index-for-index with a PriceSeries.
// Undefined entries (warm-up, too little history) are NaN.
type IndicatorSeries struct {
	MA20      []float64
	MA50      []float64
	RSI       []float64
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// Len returns the number of aligned points.
func (s *IndicatorSeries) Len() int { return len(s.MA20) }
