package history

import (
	"fmt"
	"time"
)

// ProjectRun is one project's recorded outcome within a sweep. The store is
// purely observational: the pipeline writes rows here but never reads them,
// and a missing or broken history database never changes sync behavior.
type ProjectRun struct {
	RunUUID     string    `json:"run_uuid"`
	Repo        string    `json:"repo"` // owner/name
	TargetPath  string    `json:"target_path"`
	State       string    `json:"state"`        // DONE, FAILED
	FailedStage string    `json:"failed_stage"` // empty unless FAILED
	Version     string    `json:"version"`
	Asset       string    `json:"asset"`
	Downloaded  bool      `json:"downloaded"`
	Pruned      int       `json:"pruned"`
	Error       string    `json:"error"`
	DurationMS  int64     `json:"duration_ms"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RunStore persists sweep outcomes in SQLite
type RunStore struct {
	db      *DB
	maxRuns int
}

// NewRunStore creates a new run store keeping at most maxRuns rows
func NewRunStore(db *DB, maxRuns int) *RunStore {
	if maxRuns <= 0 {
		maxRuns = 1000
	}
	return &RunStore{
		db:      db,
		maxRuns: maxRuns,
	}
}

// RecordRun stores one project outcome
func (s *RunStore) RecordRun(run ProjectRun) error {
	query := `
		INSERT INTO project_runs (
			run_uuid, repo, target_path, state, failed_stage, version,
			asset, downloaded, pruned, error, duration_ms, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunUUID, run.Repo, run.TargetPath, run.State, run.FailedStage, run.Version,
		run.Asset, run.Downloaded, run.Pruned, run.Error, run.DurationMS, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	// Cleanup old rows if exceeding max; losing history is acceptable,
	// failing a sweep over it is not.
	if err := s.cleanupOldRuns(); err != nil {
		fmt.Printf("Warning: failed to cleanup old runs: %v\n", err)
	}

	return nil
}

// GetRecentRuns retrieves the N most recent project outcomes
func (s *RunStore) GetRecentRuns(limit int) ([]*ProjectRun, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT run_uuid, repo, target_path, state, failed_stage, version,
			   asset, downloaded, pruned, error, duration_ms, finished_at
		FROM project_runs
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*ProjectRun
	for rows.Next() {
		var run ProjectRun
		err := rows.Scan(
			&run.RunUUID, &run.Repo, &run.TargetPath, &run.State, &run.FailedStage, &run.Version,
			&run.Asset, &run.Downloaded, &run.Pruned, &run.Error, &run.DurationMS, &run.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// cleanupOldRuns removes old rows exceeding the maximum count
func (s *RunStore) cleanupOldRuns() error {
	query := `
		DELETE FROM project_runs
		WHERE id NOT IN (
			SELECT id FROM project_runs
			ORDER BY finished_at DESC, id DESC
			LIMIT ?
		)
	`

	_, err := s.db.Exec(query, s.maxRuns)
	return err
}
