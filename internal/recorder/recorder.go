package recorder

import "time"

// Outcome classifies how a dashboard query ended.
type Outcome string

const (
	OutcomeOK    Outcome = "OK"
	OutcomeEmpty Outcome = "EMPTY"
	OutcomeError Outcome = "ERROR"
)

// QueryEvent records one dashboard invocation.
type QueryEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Symbol     string    `json:"symbol"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Provider   string    `json:"provider"`
	Points     int       `json:"points"`
	Outcome    Outcome   `json:"outcome"`
	DurationMS int64     `json:"duration_ms"`
	Note       string    `json:"note,omitempty"`
}

// Recorder persists the query audit log.
type Recorder interface {
	RecordQuery(evt *QueryEvent) error
	RecentQueries(limit int) ([]QueryEvent, error)
	PruneBefore(cutoff time.Time) (int64, error)
	Close() error
}
