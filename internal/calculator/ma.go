package calculator

import (
	"math"

	"StockScope/internal/model"
)

// MinPoints is the shortest series any indicator is computed for.
// Shorter input yields all-NaN output instead of an error.
const MinPoints = 2

// MovingAverage returns the simple rolling mean of close prices over `window` trailing bars.
// The first window-1 entries are NaN.
func MovingAverage(bars []model.OHLCV, window int) []float64 {
	return SMA(extractCloses(bars), window)
}

// SMA computes the rolling mean of values over `window` trailing entries inclusive.
// A window containing a NaN is itself NaN. A window of zeros averages to exactly 0, and a
// window without negative values never averages below 0, whatever the running-sum residue.
func SMA(values []float64, window int) []float64 {
	out := undefined(len(values))
	if window <= 0 || len(values) < MinPoints {
		return out
	}
	sum := 0.0
	nans, nonzero, negative := 0, 0, 0
	count := func(v float64, d int) {
		switch {
		case math.IsNaN(v):
			nans += d
		case v < 0:
			negative += d
			nonzero += d
		case v > 0:
			nonzero += d
		}
	}
	for i, v := range values {
		count(v, 1)
		if !math.IsNaN(v) {
			sum += v
		}
		if i >= window {
			old := values[i-window]
			count(old, -1)
			if !math.IsNaN(old) {
				sum -= old
			}
		}
		if i < window-1 || nans > 0 {
			continue
		}
		switch mean := sum / float64(window); {
		case nonzero == 0:
			out[i] = 0
		case negative == 0 && mean < 0:
			out[i] = 0
		default:
			out[i] = mean
		}
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
