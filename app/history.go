package app

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

//go:embed init.sql
var initSQL string

// History persists one summary row per analysis run, so repeated runs
// over a growing collection can be compared later.
type History struct {
	db *sql.DB
}

// OpenHistory opens (and if needed creates) the history database.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(initSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Record appends one run summary with the current time.
func (h *History) Record(summary models.RunSummary) error {
	return h.record(summary, time.Now())
}

func (h *History) record(summary models.RunSummary, at time.Time) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	_, err = h.db.Exec(
		`INSERT INTO run_history(run_time, summary_json) VALUES (?, ?)`,
		at.Unix(), string(data),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// HistoryEntry is one recorded run.
type HistoryEntry struct {
	RunTime time.Time
	Summary models.RunSummary
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	rows, err := h.db.Query(
		`SELECT run_time, summary_json FROM run_history ORDER BY run_time DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var ts int64
		var data string
		if err := rows.Scan(&ts, &data); err != nil {
			return nil, err
		}
		var summary models.RunSummary
		if err := json.Unmarshal([]byte(data), &summary); err != nil {
			return nil, fmt.Errorf("decode run summary: %w", err)
		}
		entries = append(entries, HistoryEntry{RunTime: time.Unix(ts, 0), Summary: summary})
	}
	return entries, rows.Err()
}

// PrintHistory writes the most recent run summaries to stdout, newest
// first.
func PrintHistory(dbPath string, limit int) error {
	h, err := OpenHistory(dbPath)
	if err != nil {
		return err
	}
	defer h.Close()

	entries, err := h.Recent(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s\n", e.RunTime.Format(time.RFC3339))
		for _, g := range e.Summary.Groups {
			fmt.Printf("  %-24s files: %5d  sessions: %4d  total: %.2f h\n",
				g.Label, g.FileCount, g.SessionCount, g.TotalDurationSec/3600)
		}
	}
	return nil
}
