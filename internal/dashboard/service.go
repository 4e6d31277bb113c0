// Package dashboard runs the fetch, compute and render pipeline behind the page and
// turns every outcome into a View.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"StockScope/internal/calculator"
	"StockScope/internal/chart"
	"StockScope/internal/collector"
	"StockScope/internal/metrics"
	"StockScope/internal/recorder"
)

// Service builds dashboard views.
type Service struct {
	Fetcher  collector.Fetcher
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
	Params   calculator.Params
}

// NewService creates a Service with the default indicator windows.
func NewService(fetcher collector.Fetcher, rec recorder.Recorder, m *metrics.Metrics) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Fetcher: fetcher, Recorder: rec, Metrics: m, Params: calculator.DefaultParams}
}

// Build runs the pipeline for one request. It never returns an error: provider failures and
// panics become View.Error, an empty range becomes View.Warning.
func (s *Service) Build(ctx context.Context, req Request) (view *View) {
	started := time.Now()
	view = &View{
		Symbol: req.Symbol,
		Start:  req.Start.Format(DateLayout),
		End:    req.End.Format(DateLayout),
	}
	if req.Symbol == "" {
		return view
	}

	evt := &recorder.QueryEvent{
		Timestamp: started,
		Symbol:    req.Symbol,
		Start:     req.Start,
		End:       req.End,
		Provider:  s.Fetcher.Name(),
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] dashboard build %s panicked: %v", req.Symbol, r)
			s.fail(view, evt, fmt.Errorf("%v", r))
		}
		s.finish(evt, started)
	}()

	fetchStarted := time.Now()
	series, err := s.Fetcher.FetchDailyRange(ctx, req.Symbol, req.Start, req.End)
	if s.Metrics != nil {
		s.Metrics.FetchDur.WithLabelValues(s.Fetcher.Name()).Observe(time.Since(fetchStarted).Seconds())
	}
	if err != nil {
		log.Printf("[ERROR] fetch %s [%s, %s): %v", req.Symbol, view.Start, view.End, err)
		s.fail(view, evt, err)
		return view
	}

	if series.Empty() {
		log.Printf("[WARN] no price data for %s in [%s, %s)", req.Symbol, view.Start, view.End)
		view.Warning = fmt.Sprintf("No price data was found for %s in the selected period.", req.Symbol)
		evt.Outcome = recorder.OutcomeEmpty
		return view
	}

	view.Rows = rowsFrom(series.Bars)
	if sum, err := calculator.Summarize(series.Bars); err == nil {
		view.Summary = sum
	}

	ind := calculator.Compute(series, s.Params)
	view.Figure = chart.Compose(req.Symbol, series.Bars, ind)

	info, err := s.Fetcher.FetchCompanyInfo(ctx, req.Symbol)
	if err != nil {
		log.Printf("[WARN] company info for %s unavailable: %v", req.Symbol, err)
		info = nil
	}
	view.Info = info.Fields()

	evt.Outcome = recorder.OutcomeOK
	evt.Points = series.Len()
	if s.Metrics != nil {
		s.Metrics.PointsTotal.Add(float64(series.Len()))
	}
	return view
}

func (s *Service) fail(view *View, evt *recorder.QueryEvent, err error) {
	view.Rows, view.Summary, view.Figure, view.Info = nil, nil, nil, nil
	view.Warning = ""
	view.Error = fmt.Sprintf("%s: %v", ErrorMessage, err)
	view.Hint = ErrorHint
	evt.Outcome = recorder.OutcomeError
	evt.Note = err.Error()
}

func (s *Service) finish(evt *recorder.QueryEvent, started time.Time) {
	elapsed := time.Since(started)
	evt.DurationMS = elapsed.Milliseconds()
	if s.Metrics != nil {
		s.Metrics.BuildDur.Observe(elapsed.Seconds())
		s.Metrics.RequestsTotal.WithLabelValues(strings.ToLower(string(evt.Outcome))).Inc()
	}
	if err := s.Recorder.RecordQuery(evt); err != nil {
		log.Printf("[ERROR] record query: %v", err)
	}
}

// History returns the most recent recorded queries.
func (s *Service) History(limit int) ([]recorder.QueryEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.Recorder.RecentQueries(limit)
}
