package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"StockScope/internal/model"
)

const (
	defaultYahooBaseURL    = "https://query1.finance.yahoo.com"
	defaultYahooSessionURL = "https://fc.yahoo.com"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL    string
	SessionURL string // visited once to obtain the session cookie the crumb is bound to
	Client     *http.Client
	SymbolMap  map[string]string // maps user-facing aliases to Yahoo tickers

	mu    sync.Mutex
	crumb string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL:    defaultYahooBaseURL,
		SessionURL: defaultYahooSessionURL,
		Client:     newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the v8 chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooSummary is the response structure from the v10 quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector  string `json:"sector"`
				Country string `json:"country"`
				Website string `json:"website"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"price"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// at returns values[i], or fallback when the entry is missing or null.
func at(values []*float64, i int, fallback float64) float64 {
	if i >= len(values) || values[i] == nil {
		return fallback
	}
	return *values[i]
}

// get decodes the JSON body into out and returns the HTTP status. Yahoo reports most
// failures inside a JSON envelope, so a decodable non-200 body is not an error here.
func (f *YahooFetcher) get(ctx context.Context, u string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("yahoo read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		}
		return resp.StatusCode, fmt.Errorf("yahoo decode: %w", err)
	}
	return resp.StatusCode, nil
}

// FetchDailyRange requests daily bars for [start, end). The request window is padded by a day
// on each side so exchanges east or west of UTC keep their first and last sessions; bars are
// then dated in exchange-local time and trimmed back to the range.
func (f *YahooFetcher) FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	start, end = truncateDay(start), truncateDay(end)
	if !end.After(start) {
		return emptySeries(symbol, start, end), nil
	}

	params := url.Values{
		"interval": {"1d"},
		"period1":  {strconv.FormatInt(start.AddDate(0, 0, -1).Unix(), 10)},
		"period2":  {strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10)},
		"events":   {"history"},
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())

	var chart yahooChart
	status, err := f.get(ctx, u, &chart)
	if err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}

	series := emptySeries(symbol, start, end)
	if len(chart.Chart.Result) == 0 {
		return series, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bars (holidays, halted sessions)
		}
		// a bar with a close but no open/high/low collapses onto the close
		closePrice := *quote.Close[i]
		bars = append(bars, model.OHLCV{
			Time:   truncateDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC()),
			Open:   at(quote.Open, i, closePrice),
			High:   at(quote.High, i, closePrice),
			Low:    at(quote.Low, i, closePrice),
			Close:  closePrice,
			Volume: at(quote.Volume, i, 0),
		})
	}
	series.Bars = normalize(bars, start, end)
	return series, nil
}

// sessionCrumb returns the cached crumb, performing the cookie and crumb handshake on first
// use. quoteSummary rejects requests without both.
func (f *YahooFetcher) sessionCrumb(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" {
		return f.crumb, nil
	}

	// The session endpoint answers 404 but still sets the cookie, so only transport errors count.
	if f.SessionURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.SessionURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		resp, err := f.Client.Do(req)
		if err != nil {
			return "", fmt.Errorf("yahoo session: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("yahoo read crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "{<") {
		return "", fmt.Errorf("yahoo crumb: status %d", resp.StatusCode)
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) resetCrumb() {
	f.mu.Lock()
	f.crumb = ""
	f.mu.Unlock()
}

// FetchCompanyInfo reads the asset profile and price modules. Missing fields stay empty.
// An expired crumb is refreshed once.
func (f *YahooFetcher) FetchCompanyInfo(ctx context.Context, symbol string) (*model.CompanyInfo, error) {
	summary, status, err := f.fetchSummary(ctx, symbol)
	if status == http.StatusUnauthorized {
		f.resetCrumb()
		summary, status, err = f.fetchSummary(ctx, symbol)
	}
	if err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return &model.CompanyInfo{}, nil
	}

	r := summary.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}
	return &model.CompanyInfo{
		Name:    name,
		Sector:  r.AssetProfile.Sector,
		Country: r.AssetProfile.Country,
		Website: r.AssetProfile.Website,
	}, nil
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) (*yahooSummary, int, error) {
	crumb, err := f.sessionCrumb(ctx)
	if err != nil {
		return nil, 0, err
	}
	params := url.Values{
		"modules": {"assetProfile,price"},
		"crumb":   {crumb},
	}
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())

	var summary yahooSummary
	status, err := f.get(ctx, u, &summary)
	if err != nil {
		return nil, status, err
	}
	return &summary, status, nil
}
