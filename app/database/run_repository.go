package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ RunRepository = (*RunRepo)(nil)

// RunRepo keeps bookkeeping for ingestion runs.
type RunRepo struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) StartRun(id, sourceName string, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO ingest_runs (id, source_name, started_at)
		VALUES (?, ?, ?)
	`, id, sourceName, startedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

func (r *RunRepo) CompleteRun(id string, stats RunStats, runErr string) error {
	_, err := r.db.Exec(`
		UPDATE ingest_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    initiative_count = ?, law_count = ?, edge_count = ?, flow_count = ?,
		    error = ?
		WHERE id = ?
	`, stats.Initiatives, stats.Laws, stats.Edges, stats.Flows, runErr, id)

	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

func (r *RunRepo) GetLatestRun(sourceName string) (*IngestRun, error) {
	var run IngestRun
	err := r.db.QueryRow(`
		SELECT id, source_name, started_at, completed_at,
		       initiative_count, law_count, edge_count, flow_count, error
		FROM ingest_runs
		WHERE source_name = ?
		ORDER BY id DESC
		LIMIT 1
	`, sourceName).Scan(
		&run.ID, &run.SourceName, &run.StartedAt, &run.CompletedAt,
		&run.InitiativeCount, &run.LawCount, &run.EdgeCount, &run.FlowCount, &run.Error,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &run, nil
}
