package sqlite

const schema = `
-- Issues table: one row per synced tracker issue, denormalized project
-- fields included so aggregation never joins back to the tracker.
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    team_id TEXT NOT NULL DEFAULT '',
    team_name TEXT NOT NULL DEFAULT '',
    team_key TEXT NOT NULL DEFAULT '',
    state_id TEXT NOT NULL DEFAULT '',
    state_name TEXT NOT NULL DEFAULT '',
    state_type TEXT NOT NULL DEFAULT '',
    assignee_id TEXT NOT NULL DEFAULT '',
    assignee_name TEXT NOT NULL DEFAULT '',
    priority INTEGER NOT NULL DEFAULT 0,
    estimate REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT '',
    completed_at TEXT,
    last_comment_at TEXT,
    labels TEXT NOT NULL DEFAULT '[]',
    project_id TEXT NOT NULL DEFAULT '',
    project_name TEXT NOT NULL DEFAULT '',
    project_state TEXT NOT NULL DEFAULT '',
    project_state_category TEXT NOT NULL DEFAULT '',
    project_health TEXT NOT NULL DEFAULT '',
    project_updated_at TEXT,
    project_lead_name TEXT NOT NULL DEFAULT '',
    project_target_date TEXT,
    project_estimated_end_date TEXT,
    initiative_id TEXT NOT NULL DEFAULT '',
    initiative_name TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_issues_team_key ON issues(team_key);
CREATE INDEX IF NOT EXISTS idx_issues_state_type ON issues(state_type);
CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues(assignee_name);

-- Projects table, gap flags precomputed at sync time.
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    state_category TEXT NOT NULL DEFAULT '',
    health TEXT NOT NULL DEFAULT '',
    target_date TEXT,
    estimated_end_date TEXT,
    lead_name TEXT NOT NULL DEFAULT '',
    updated_at TEXT,
    team_keys TEXT NOT NULL DEFAULT '[]',
    engineers TEXT NOT NULL DEFAULT '[]',
    in_progress_issues INTEGER NOT NULL DEFAULT 0,
    total_issues INTEGER NOT NULL DEFAULT 0,
    missing_lead INTEGER NOT NULL DEFAULT 0,
    stale_update INTEGER NOT NULL DEFAULT 0,
    status_mismatch INTEGER NOT NULL DEFAULT 0,
    missing_health INTEGER NOT NULL DEFAULT 0,
    date_discrepancy INTEGER NOT NULL DEFAULT 0
);

-- Engineers table, one aggregate row per assignee.
CREATE TABLE IF NOT EXISTS engineers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    teams TEXT NOT NULL DEFAULT '[]',
    wip_issue_count INTEGER NOT NULL DEFAULT 0,
    wip_limit_violation INTEGER NOT NULL DEFAULT 0,
    multi_project_violation INTEGER NOT NULL DEFAULT 0,
    missing_estimate_count INTEGER NOT NULL DEFAULT 0,
    missing_priority_count INTEGER NOT NULL DEFAULT 0,
    no_recent_comment_count INTEGER NOT NULL DEFAULT 0,
    wip_age_violation_count INTEGER NOT NULL DEFAULT 0
);

-- Sync metadata: single-row table, replaced every sync run.
CREATE TABLE IF NOT EXISTS sync_metadata (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    run_id TEXT NOT NULL,
    last_sync_time TEXT NOT NULL,
    issue_count INTEGER NOT NULL DEFAULT 0,
    project_count INTEGER NOT NULL DEFAULT 0,
    engineer_count INTEGER NOT NULL DEFAULT 0
);

-- Metrics snapshots: append-only history, full snapshot as JSON.
CREATE TABLE IF NOT EXISTS metrics_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    schema_version INTEGER NOT NULL,
    level TEXT NOT NULL,
    level_id TEXT NOT NULL,
    captured_at TEXT NOT NULL,
    metrics_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_scope ON metrics_snapshots(level, level_id, captured_at);
`
