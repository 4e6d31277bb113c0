package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"StockScope/internal/collector"
	"StockScope/internal/metrics"
	"StockScope/internal/model"
	"StockScope/internal/recorder"
)

type memRecorder struct {
	recorder.NoopRecorder
	events []recorder.QueryEvent
}

func (m *memRecorder) RecordQuery(evt *recorder.QueryEvent) error {
	m.events = append(m.events, *evt)
	return nil
}

func flatBars(n int, price float64) []model.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 100}
	}
	return bars
}

func request(symbol string) Request {
	return Request{
		Symbol: symbol,
		Start:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuild_Success(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: flatBars(30, 10),
		Info: &model.CompanyInfo{Name: "Flat Corp", Sector: "Utilities"},
	}
	rec := &memRecorder{}
	svc := NewService(fetcher, rec, metrics.NewMetrics())

	view := svc.Build(context.Background(), request("FLAT"))

	if view.Error != "" || view.Warning != "" {
		t.Fatalf("unexpected error/warning: %q %q", view.Error, view.Warning)
	}
	if len(view.Rows) != 30 || view.Rows[0].Date != "2025-01-01" {
		t.Errorf("rows: %d, first %+v", len(view.Rows), view.Rows[0])
	}
	if !view.HasChart() || len(view.Figure.Data) != 7 {
		t.Errorf("expected composed figure with 7 traces")
	}
	wantInfo := []string{"Flat Corp", "Utilities", model.Placeholder, model.Placeholder}
	for i, f := range view.Info {
		if f.Value != wantInfo[i] {
			t.Errorf("info %s: got %q, want %q", f.Label, f.Value, wantInfo[i])
		}
	}
	if view.Summary == nil || view.Summary.LastClose != 10 {
		t.Errorf("summary: %+v", view.Summary)
	}

	if len(rec.events) != 1 || rec.events[0].Outcome != recorder.OutcomeOK || rec.events[0].Points != 30 {
		t.Errorf("recorded events: %+v", rec.events)
	}
}

func TestBuild_EmptyResultSkipsComposer(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: []model.OHLCV{}}
	rec := &memRecorder{}
	svc := NewService(fetcher, rec, nil)

	req := request("7203.T")
	req.End = req.Start
	view := svc.Build(context.Background(), req)

	if view.Warning == "" || !strings.Contains(view.Warning, "7203.T") {
		t.Errorf("expected empty-result warning, got %q", view.Warning)
	}
	if view.Error != "" || view.HasChart() || len(view.Rows) != 0 {
		t.Errorf("empty result should render nothing else: %+v", view)
	}
	if rec.events[0].Outcome != recorder.OutcomeEmpty {
		t.Errorf("outcome: %s", rec.events[0].Outcome)
	}
}

func TestBuild_ProviderError(t *testing.T) {
	fetcher := &collector.MockFetcher{Err: errors.New("yahoo api error: No data found")}
	rec := &memRecorder{}
	svc := NewService(fetcher, rec, nil)

	view := svc.Build(context.Background(), request("NOPE"))

	if !strings.HasPrefix(view.Error, ErrorMessage) || !strings.Contains(view.Error, "No data found") {
		t.Errorf("error: %q", view.Error)
	}
	if view.Hint != ErrorHint {
		t.Errorf("hint: %q", view.Hint)
	}
	if view.HasChart() {
		t.Error("no chart expected on error")
	}
	if fetcher.Calls != 1 {
		t.Errorf("provider should be called once without retry, got %d", fetcher.Calls)
	}
	if rec.events[0].Outcome != recorder.OutcomeError || rec.events[0].Note == "" {
		t.Errorf("recorded: %+v", rec.events[0])
	}
}

type panickingFetcher struct{ collector.MockFetcher }

func (p *panickingFetcher) FetchDailyRange(context.Context, string, time.Time, time.Time) (*model.PriceSeries, error) {
	panic("boom")
}

func TestBuild_PanicBecomesError(t *testing.T) {
	rec := &memRecorder{}
	svc := NewService(&panickingFetcher{}, rec, metrics.NewMetrics())

	view := svc.Build(context.Background(), request("AAPL"))

	if !strings.HasPrefix(view.Error, ErrorMessage) || !strings.Contains(view.Error, "boom") {
		t.Errorf("error: %q", view.Error)
	}
	if view.Hint != ErrorHint {
		t.Errorf("hint: %q", view.Hint)
	}
	if view.HasChart() || view.Rows != nil {
		t.Error("panicking build should not render results")
	}
	if len(rec.events) != 1 || rec.events[0].Outcome != recorder.OutcomeError {
		t.Errorf("recorded events: %+v", rec.events)
	}
}

func TestBuild_MetadataFailureUsesPlaceholders(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: flatBars(5, 20), InfoErr: errors.New("yahoo: status 401")}
	svc := NewService(fetcher, nil, nil)

	view := svc.Build(context.Background(), request("AAPL"))

	if view.Error != "" {
		t.Fatalf("metadata failure should not be fatal: %q", view.Error)
	}
	for _, f := range view.Info {
		if f.Value != model.Placeholder {
			t.Errorf("%s: got %q, want placeholder", f.Label, f.Value)
		}
	}
}

func TestBuild_ShortSeriesStillRenders(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: flatBars(1, 20)}
	svc := NewService(fetcher, nil, nil)

	view := svc.Build(context.Background(), request("ONE"))
	if view.Error != "" || !view.HasChart() || len(view.Rows) != 1 {
		t.Errorf("single bar should render with undefined indicators: %+v", view)
	}
}

func TestBuild_NoSymbol(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	svc := NewService(fetcher, nil, nil)

	view := svc.Build(context.Background(), request(""))
	if fetcher.Calls != 0 || view.Error != "" || view.Warning != "" {
		t.Errorf("blank symbol should only render the form: calls=%d view=%+v", fetcher.Calls, view)
	}
}

func TestParseRequest(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	req, err := ParseRequest("  7203.t ", "", "", now, 1)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Symbol != "7203.T" {
		t.Errorf("symbol: %q", req.Symbol)
	}
	if got := req.Start.Format(DateLayout); got != "2025-10-19" {
		t.Errorf("default start: %s", got)
	}
	if got := req.End.Format(DateLayout); got != "2026-10-19" {
		t.Errorf("default end: %s", got)
	}

	req, err = ParseRequest("AAPL", "2024-01-02", "2024-06-30", now, 1)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Start.Format(DateLayout) != "2024-01-02" || req.End.Format(DateLayout) != "2024-06-30" {
		t.Errorf("explicit range: %v %v", req.Start, req.End)
	}

	if _, err := ParseRequest("AAPL", "01/02/2024", "", now, 1); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := ParseRequest("AAPL", "", "tomorrow", now, 1); err == nil {
		t.Error("expected error for malformed end date")
	}
}
