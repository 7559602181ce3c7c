package store

// schemaVersion is folded into every cache key; bump it when the cost
// formula or the stored columns change so stale rows stop matching.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projections (
    cache_key            TEXT PRIMARY KEY,
    months               INTEGER NOT NULL,
    created_at           TEXT NOT NULL,
    last_hit_at          TEXT,
    hits                 INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS projection_months (
    cache_key            TEXT NOT NULL REFERENCES projections(cache_key) ON DELETE CASCADE,
    month                INTEGER NOT NULL,
    effective_size_gb    REAL NOT NULL,
    storage_cost         REAL NOT NULL,
    transfer_cost        REAL NOT NULL,
    cost                 REAL NOT NULL,
    PRIMARY KEY (cache_key, month)
);

CREATE INDEX IF NOT EXISTS idx_projections_created ON projections(created_at);
`
