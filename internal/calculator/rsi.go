package calculator

import (
	"math"

	"StockScope/internal/model"
)

// RSI computes the Relative Strength Index with simple rolling averages of gains and losses.
// The first `period` entries are NaN. When the average loss is zero the ratio is unbounded:
// RSI becomes 100 if there were gains and NaN if the window was flat.
func RSI(bars []model.OHLCV, period int) []float64 {
	n := len(bars)
	if period <= 0 || n < MinPoints {
		return undefined(n)
	}

	gains := undefined(n)
	losses := undefined(n)
	for i := 1; i < n; i++ {
		delta := bars[i].Close - bars[i-1].Close
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	out := make([]float64, n)
	for i := range out {
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
