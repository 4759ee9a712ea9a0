package store

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    source     TEXT    NOT NULL,
    started_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS waypoints (
    scan_id   INTEGER NOT NULL REFERENCES scans (id) ON DELETE CASCADE,
    seq       INTEGER NOT NULL,
    latitude  REAL    NOT NULL,
    longitude REAL    NOT NULL,
    altitude  REAL    NOT NULL,
    PRIMARY KEY (scan_id, seq)
);`

	insertScanSQL = `
INSERT INTO scans (source, started_at)
VALUES (?, ?)`

	selectScansSQL = `
SELECT s.id,
       s.source,
       s.started_at,
       (SELECT COUNT(*) FROM waypoints w WHERE w.scan_id = s.id)
FROM scans s
ORDER BY s.id`

	selectScanExistsSQL = `
SELECT 1 FROM scans WHERE id = ?`

	insertWaypointSQL = `
INSERT INTO waypoints (scan_id,
                       seq,
                       latitude,
                       longitude,
                       altitude)
VALUES (?, ?, ?, ?, ?)`

	selectNextSeqSQL = `
SELECT COALESCE(MAX(seq) + 1, 0) FROM waypoints WHERE scan_id = ?`

	selectWaypointsSQL = `
SELECT latitude,
       longitude,
       altitude
FROM waypoints
WHERE scan_id = ?
ORDER BY seq`
)
