package store

import (
	"context"
	"fmt"
	"time"
)

// Run is one archived aggregation run.
type Run struct {
	ID            int64     `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Matches       int       `json:"matches"`
	Candidates    int       `json:"candidates"`
	Merged        int       `json:"merged"`
	Orphans       int       `json:"orphans"`
	Discarded     int       `json:"discarded"`
	ServersAdded  int       `json:"servers_added"`
	OutputChanged bool      `json:"output_changed"`
}

// RecordRun archives one run together with its schedule snapshot.
func (db *Database) RecordRun(ctx context.Context, run Run, snapshot []byte) error {
	const query = `
		INSERT INTO aggregation_runs
			(started_at, finished_at, matches, candidates, merged,
			 orphans, discarded, servers_added, output_changed, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := db.conn.ExecContext(ctx, query,
		run.StartedAt, run.FinishedAt, run.Matches, run.Candidates, run.Merged,
		run.Orphans, run.Discarded, run.ServersAdded, run.OutputChanged, snapshot)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest archived runs, most recent first.
func (db *Database) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `
		SELECT id, started_at, finished_at, matches, candidates, merged,
		       orphans, discarded, servers_added, output_changed
		FROM aggregation_runs
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Matches,
			&r.Candidates, &r.Merged, &r.Orphans, &r.Discarded,
			&r.ServersAdded, &r.OutputChanged); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
