package scheduler

import (
	"fmt"
	"log"
	"time"

	"StockScope/internal/metrics"
	"StockScope/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the maintenance cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Retention time.Duration

	now func() time.Time
}

// NewScheduler creates a new Scheduler that keeps retentionDays of query history.
func NewScheduler(rec recorder.Recorder, m *metrics.Metrics, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Recorder:  rec,
		Metrics:   m,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// RegisterAll registers the history prune task.
func (s *Scheduler) RegisterAll(pruneCron string) error {
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunPruneNow executes the prune task immediately.
func (s *Scheduler) RunPruneNow() {
	s.pruneTask()
}

func (s *Scheduler) pruneTask() {
	if s.Retention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.Retention)
	n, err := s.Recorder.PruneBefore(cutoff)
	if err != nil {
		log.Printf("[ERROR] prune query history: %v", err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.PrunedTotal.Add(float64(n))
	}
	log.Printf("[INFO] pruned %d query log rows older than %s", n, cutoff.Format("2006-01-02"))
}
