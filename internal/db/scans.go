package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ScanRun is one recorded scan pass
type ScanRun struct {
	ID        int64          `json:"id"`
	Sources   string         `json:"sources"`
	Entries   int            `json:"entries"`
	Warnings  int            `json:"warnings"`
	Duration  time.Duration  `json:"duration"`
	Details   map[string]any `json:"details,omitempty"`
	StartedAt time.Time      `json:"started_at"`
}

// RecordScan logs a completed scan pass
func (d *DB) RecordScan(run *ScanRun) error {
	var detailsJSON sql.NullString
	if run.Details != nil {
		b, err := json.Marshal(run.Details)
		if err == nil {
			detailsJSON = sql.NullString{String: string(b), Valid: true}
		}
	}

	res, err := d.conn.Exec(`
		INSERT INTO scan_runs (sources, entries, warnings, duration_ms, details, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.Sources, run.Entries, run.Warnings, run.Duration.Milliseconds(), detailsJSON, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return nil
}

// RecentScans returns the most recent scan passes, newest first
func (d *DB) RecentScans(limit int) ([]*ScanRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.conn.Query(`
		SELECT id, sources, entries, warnings, duration_ms, details, started_at
		FROM scan_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []*ScanRun
	for rows.Next() {
		run := &ScanRun{}
		var durationMS int64
		var details sql.NullString
		if err := rows.Scan(&run.ID, &run.Sources, &run.Entries, &run.Warnings, &durationMS, &details, &run.StartedAt); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if details.Valid && details.String != "" {
			json.Unmarshal([]byte(details.String), &run.Details)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
