package calculator

import (
	"math"

	"StockScope/internal/model"
)

// EMA computes the exponential moving average with alpha = 2/(period+1), seeded with the
// first defined value and without bias adjustment. Leading NaN values stay NaN.
func EMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < MinPoints {
		return out
	}
	alpha := 2.0 / float64(period+1)
	seeded := false
	var current float64
	for i, v := range values {
		if math.IsNaN(v) {
			if seeded {
				out[i] = current
			}
			continue
		}
		if !seeded {
			current = v
			seeded = true
		} else {
			current = v*alpha + current*(1-alpha)
		}
		out[i] = current
	}
	return out
}

// MACD returns the MACD line (short EMA minus long EMA of close), its signal line and
// the histogram. Values are defined from the first bar onward.
func MACD(bars []model.OHLCV, shortPeriod, longPeriod, signalPeriod int) (macd, signal, hist []float64) {
	n := len(bars)
	if n < MinPoints || shortPeriod <= 0 || longPeriod <= 0 || signalPeriod <= 0 {
		return undefined(n), undefined(n), undefined(n)
	}

	closes := extractCloses(bars)
	emaShort := EMA(closes, shortPeriod)
	emaLong := EMA(closes, longPeriod)

	macd = make([]float64, n)
	for i := range macd {
		macd[i] = emaShort[i] - emaLong[i]
	}
	signal = EMA(macd, signalPeriod)
	hist = make([]float64, n)
	for i := range hist {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}
