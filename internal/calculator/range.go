package calculator

import (
	"errors"
	"math"

	"StockScope/internal/model"
)

// Summary describes the price range covered by a series.
type Summary struct {
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	LastClose float64 `json:"last_close"`
	Change    float64 `json:"change_pct"`
	Position  float64 `json:"position"` // 0.0 ~ 1.0 within [Low, High]
}

// Range scans all bars and returns the highest high and lowest low.
func Range(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// Position returns where the current price sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Summarize computes the range summary of a non-empty series.
func Summarize(bars []model.OHLCV) (*Summary, error) {
	high, low, err := Range(bars)
	if err != nil {
		return nil, err
	}
	first := bars[0].Close
	last := bars[len(bars)-1].Close
	pos, err := Position(last, high, low)
	if err != nil {
		return nil, err
	}
	s := &Summary{High: high, Low: low, LastClose: last, Position: pos}
	if first != 0 {
		s.Change = (last - first) / first * 100
	}
	return s, nil
}
