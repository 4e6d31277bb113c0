// Package server exposes the dashboard page and its JSON API over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"StockScope/internal/dashboard"
	"StockScope/internal/metrics"
)

// Server wires the dashboard service into HTTP handlers.
type Server struct {
	Service       *dashboard.Service
	Metrics       *metrics.Metrics
	LookbackYears int
	DefaultSymbol string

	now func() time.Time
}

// New creates a Server.
func New(svc *dashboard.Service, m *metrics.Metrics, lookbackYears int, defaultSymbol string) *Server {
	return &Server{
		Service:       svc,
		Metrics:       m,
		LookbackYears: lookbackYears,
		DefaultSymbol: defaultSymbol,
		now:           time.Now,
	}
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", healthHandler)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// buildView parses the query string and runs the pipeline. Malformed dates short-circuit
// into an error view without touching the data source.
func (s *Server) buildView(r *http.Request) *dashboard.View {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	if _, ok := q["symbol"]; !ok {
		symbol = s.DefaultSymbol
	}

	req, err := dashboard.ParseRequest(symbol, q.Get("start"), q.Get("end"), s.now(), s.LookbackYears)
	if err != nil {
		return &dashboard.View{
			Symbol: req.Symbol,
			Start:  req.Start.Format(dashboard.DateLayout),
			End:    req.End.Format(dashboard.DateLayout),
			Error:  err.Error(),
			Hint:   "Dates use the YYYY-MM-DD format.",
		}
	}
	return s.Service.Build(r.Context(), req)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)

	var buf bytes.Buffer
	if err := renderPage(&buf, view); err != nil {
		log.Printf("[ERROR] render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)
	if view.Symbol == "" && view.Error == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.Service.History(limit)
	if err != nil {
		log.Printf("[ERROR] load history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if events == nil {
		writeJSON(w, []struct{}{})
		return
	}
	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
