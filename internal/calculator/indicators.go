package calculator

import "StockScope/internal/model"

// Params configures the indicator windows.
type Params struct {
	ShortMA    int
	LongMA     int
	RSIPeriod  int
	MACDShort  int
	MACDLong   int
	MACDSignal int
}

// DefaultParams are the dashboard's standard windows.
var DefaultParams = Params{
	ShortMA:    20,
	LongMA:     50,
	RSIPeriod:  14,
	MACDShort:  12,
	MACDLong:   26,
	MACDSignal: 9,
}

// Compute derives all dashboard indicators from a private copy of the series.
func Compute(series *model.PriceSeries, p Params) *model.IndicatorSeries {
	bars := series.Clone().Bars

	ind := &model.IndicatorSeries{
		MA20: MovingAverage(bars, p.ShortMA),
		MA50: MovingAverage(bars, p.LongMA),
		RSI:  RSI(series.Clone().Bars, p.RSIPeriod),
	}
	ind.MACD, ind.Signal, ind.Histogram = MACD(series.Clone().Bars, p.MACDShort, p.MACDLong, p.MACDSignal)
	return ind
}
