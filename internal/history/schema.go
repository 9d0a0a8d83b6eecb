package history

const schema = `
CREATE TABLE IF NOT EXISTS project_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid TEXT NOT NULL,
    repo TEXT NOT NULL,
    target_path TEXT NOT NULL,
    state TEXT NOT NULL,
    failed_stage TEXT DEFAULT '',
    version TEXT DEFAULT '',
    asset TEXT DEFAULT '',
    downloaded BOOLEAN DEFAULT FALSE,
    pruned INTEGER DEFAULT 0,
    error TEXT DEFAULT '',
    duration_ms INTEGER DEFAULT 0,
    finished_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_project_runs_finished_at ON project_runs(finished_at DESC);
CREATE INDEX IF NOT EXISTS idx_project_runs_run_uuid ON project_runs(run_uuid);
CREATE INDEX IF NOT EXISTS idx_project_runs_repo ON project_runs(repo);
`
