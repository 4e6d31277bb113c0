package collector

import (
	"context"
	"sort"
	"time"

	"StockScope/internal/model"
)

// Fetcher resolves a symbol into daily bars and company metadata.
type Fetcher interface {
	// FetchDailyRange returns the daily bars in [start, end). An empty series is not an error.
	FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	FetchCompanyInfo(ctx context.Context, symbol string) (*model.CompanyInfo, error)
	Name() string
}

// emptySeries is returned for ranges that cannot contain a trading day.
func emptySeries(symbol string, start, end time.Time) *model.PriceSeries {
	return &model.PriceSeries{Symbol: symbol, Start: start, End: end, FetchedAt: time.Now()}
}

// normalize sorts bars chronologically, drops duplicate dates (last one wins) and trims
// anything outside [start, end).
func normalize(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	for _, b := range bars {
		if b.Time.Before(start) || !b.Time.Before(end) {
			continue
		}
		if n := len(out); n > 0 && sameDay(out[n-1].Time, b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// truncateDay returns midnight UTC of t's calendar date.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
