package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockScope/internal/collector"
	"StockScope/internal/dashboard"
	"StockScope/internal/metrics"
	"StockScope/internal/model"
	"StockScope/internal/recorder"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) (*Server, http.Handler) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	m := metrics.NewMetrics()
	s := New(dashboard.NewService(fetcher, rec, m), m, 1, "")
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return s, s.Routes()
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	res := w.Result()
	body, _ := io.ReadAll(res.Body)
	return res, string(body)
}

func TestHealthHandler(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{})
	res, body := get(t, h, "/healthz")
	if res.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("status=%d body=%q", res.StatusCode, body)
	}
}

func TestPage_FormOnlyWithoutSymbol(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	_, h := newTestServer(t, fetcher)

	res, body := get(t, h, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	if !strings.Contains(body, `value="2025-10-19"`) || !strings.Contains(body, `value="2026-10-19"`) {
		t.Error("default date range not rendered")
	}
	if strings.Contains(body, `id="chart"`) {
		t.Error("chart should not render without a symbol")
	}
	if fetcher.Calls != 0 {
		t.Errorf("fetcher called %d times", fetcher.Calls)
	}
}

func TestPage_RendersChartTableAndInfo(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 2500, Info: &model.CompanyInfo{Name: "Toyota Motor Corporation"}}
	_, h := newTestServer(t, fetcher)

	res, body := get(t, h, "/?symbol=7203.t&start=2026-01-05&end=2026-04-01")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	for _, want := range []string{
		"7203.T price data",
		`id="chart"`,
		"Plotly.newPlot",
		`"hovermode":"x unified"`,
		"Toyota Motor Corporation",
		"<strong>Sector:</strong> N/A",
		"<td>2026-01-05</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPage_EmptyResultWarning(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{})

	_, body := get(t, h, "/?symbol=AAPL&start=2026-01-05&end=2026-01-05")
	if !strings.Contains(body, `class="warning"`) || strings.Contains(body, `id="chart"`) {
		t.Error("expected warning without chart")
	}
}

func TestPage_ProviderError(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{Err: errors.New("yahoo: status 404")})

	_, body := get(t, h, "/?symbol=NOPE")
	if !strings.Contains(body, dashboard.ErrorMessage) || !strings.Contains(body, "ticker symbol") {
		t.Error("expected error message and hint")
	}
}

func TestDashboardAPI(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{Price: 100})

	res, body := get(t, h, "/api/dashboard?symbol=AAPL&start=2026-01-05&end=2026-03-02")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", res.StatusCode, body)
	}
	var view struct {
		Symbol string          `json:"symbol"`
		Rows   []dashboard.Row `json:"rows"`
		Figure struct {
			Data []json.RawMessage `json:"data"`
		} `json:"figure"`
		Info []model.InfoField `json:"info"`
	}
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Symbol != "AAPL" || len(view.Rows) != 40 || len(view.Figure.Data) != 7 || len(view.Info) != 4 {
		t.Errorf("unexpected view: symbol=%s rows=%d traces=%d info=%d",
			view.Symbol, len(view.Rows), len(view.Figure.Data), len(view.Info))
	}
}

func TestDashboardAPI_Validation(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{})

	if res, _ := get(t, h, "/api/dashboard"); res.StatusCode != http.StatusBadRequest {
		t.Errorf("missing symbol: status=%d", res.StatusCode)
	}

	res, body := get(t, h, "/api/dashboard?symbol=AAPL&start=01-05-2026")
	if res.StatusCode != http.StatusOK || !strings.Contains(body, "invalid start date") {
		t.Errorf("bad date: status=%d body=%s", res.StatusCode, body)
	}
}

func TestHistoryAPI(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{Price: 100})

	_, body := get(t, h, "/api/history")
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("empty history: %s", body)
	}

	get(t, h, "/api/dashboard?symbol=AAPL&start=2026-01-05&end=2026-02-02")
	get(t, h, "/api/dashboard?symbol=MSFT&start=2026-01-05&end=2026-01-05")

	_, body = get(t, h, "/api/history?limit=10")
	var events []recorder.QueryEvent
	if err := json.Unmarshal([]byte(body), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	outcomes := map[string]recorder.Outcome{}
	for _, e := range events {
		outcomes[e.Symbol] = e.Outcome
	}
	if outcomes["AAPL"] != recorder.OutcomeOK || outcomes["MSFT"] != recorder.OutcomeEmpty {
		t.Errorf("outcomes: %+v", outcomes)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, &collector.MockFetcher{Price: 100})
	get(t, h, "/api/dashboard?symbol=AAPL&start=2026-01-05&end=2026-02-02")

	_, body := get(t, h, "/metrics")
	if !strings.Contains(body, `dashboard_requests_total{outcome="ok"} 1`) {
		t.Error("request counter not exposed")
	}
}
