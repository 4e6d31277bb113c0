package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockScope/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bars REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one daily bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type restProfile struct {
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
	Website string `json:"website"`
}

func (f *RESTFetcher) FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	start, end = truncateDay(start), truncateDay(end)
	if !end.After(start) {
		return emptySeries(symbol, start, end), nil
	}

	params := url.Values{
		"symbol": {symbol},
		"from":   {start.Format("2006-01-02")},
		"to":     {end.Format("2006-01-02")},
	}
	var rbs []restBar
	if err := f.getJSON(ctx, "/api/v1/bars/daily?"+params.Encode(), &rbs); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	bars := make([]model.OHLCV, len(rbs))
	for i, rb := range rbs {
		bars[i] = model.OHLCV{
			Time:   truncateDay(time.Unix(rb.Timestamp, 0).UTC()),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	series := emptySeries(symbol, start, end)
	series.Bars = normalize(bars, start, end)
	return series, nil
}

func (f *RESTFetcher) FetchCompanyInfo(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	var p restProfile
	if err := f.getJSON(ctx, "/api/v1/profile?"+url.Values{"symbol": {symbol}}.Encode(), &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &model.CompanyInfo{Name: p.Name, Sector: p.Sector, Country: p.Country, Website: p.Website}, nil
}

func (f *RESTFetcher) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
