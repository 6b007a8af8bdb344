package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id                   TEXT PRIMARY KEY,
    project_id           TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    note                 TEXT NOT NULL DEFAULT '',
    size_bytes           INTEGER NOT NULL,
    payload              TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id, created_at);
`
