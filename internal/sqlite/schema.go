package sqlite

// createRecords holds every stored entity. data is the stored record as JSON.
const createRecords = `CREATE TABLE IF NOT EXISTS records (
    kind TEXT NOT NULL,
    group_id TEXT NOT NULL,
    entity_key TEXT NOT NULL,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (kind, group_id, entity_key)
);`

const selectRecord = `SELECT data FROM records WHERE kind = ? AND group_id = ? AND entity_key = ?`

const upsertRecord = `INSERT INTO records (kind, group_id, entity_key, data, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (kind, group_id, entity_key) DO UPDATE SET
    data = excluded.data,
    updated_at = excluded.updated_at`
