package collector

import (
	"context"
	"time"

	"StockScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Bars    []model.OHLCV // when set, returned (trimmed to the range) instead of generated bars
	Info    *model.CompanyInfo
	Err     error
	InfoErr error

	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyRange(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	start, end = truncateDay(start), truncateDay(end)
	series := emptySeries(symbol, start, end)
	if !end.After(start) {
		return series, nil
	}
	bars := m.Bars
	if bars == nil {
		bars = generateMockBars(m.Price, start, end)
	}
	series.Bars = normalize(append([]model.OHLCV(nil), bars...), start, end)
	return series, nil
}

func (m *MockFetcher) FetchCompanyInfo(_ context.Context, _ string) (*model.CompanyInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if m.Info == nil {
		return &model.CompanyInfo{}, nil
	}
	info := *m.Info
	return &info, nil
}

// generateMockBars produces one bar per weekday in [start, end) drifting around basePrice.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%40-20)*0.002)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
