package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists the query audit log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS query_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			start_date  TEXT,
			end_date    TEXT,
			provider    TEXT,
			points      INTEGER,
			outcome     TEXT,
			duration_ms INTEGER,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_query_ts ON query_log(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordQuery(evt *QueryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO query_log
		(timestamp, symbol, start_date, end_date, provider, points, outcome, duration_ms, note)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), evt.Symbol, evt.Start.Format(dateLayout), evt.End.Format(dateLayout),
		evt.Provider, evt.Points, string(evt.Outcome), evt.DurationMS, evt.Note,
	)
	return err
}

// RecentQueries returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentQueries(limit int) ([]QueryEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, symbol, start_date, end_date, provider, points, outcome, duration_ms, note
		FROM query_log ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var events []QueryEvent
	for rows.Next() {
		var (
			evt        QueryEvent
			ts         int64
			start, end string
			outcome    string
		)
		if err := rows.Scan(&ts, &evt.Symbol, &start, &end, &evt.Provider, &evt.Points, &outcome, &evt.DurationMS, &evt.Note); err != nil {
			return nil, fmt.Errorf("scan query_log: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts)
		evt.Start, _ = time.Parse(dateLayout, start)
		evt.End, _ = time.Parse(dateLayout, end)
		evt.Outcome = Outcome(outcome)
		events = append(events, evt)
	}
	return events, rows.Err()
}

// PruneBefore deletes events older than cutoff and returns how many were removed.
func (r *SQLiteRecorder) PruneBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM query_log WHERE timestamp < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune query_log: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
