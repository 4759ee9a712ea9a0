// Package store keeps decoded waypoints in SQLite, one scan per log read.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"niva-gps/internal/geo"
)

// ErrScanNotFound is returned when a scan ID has no row.
var ErrScanNotFound = errors.New("store: scan not found")

// Scan describes one stored log scan.
type Scan struct {
	ID        int64
	Source    string
	StartedAt time.Time
	Waypoints int
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string
	clock  clockwork.Clock

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore returns a store backed by the database at dbPath. The file
// is created with its schema on first use. A nil clock uses the real clock.
func NewSqliteStore(dbPath string, clock clockwork.Clock) *SqliteStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SqliteStore{dbPath: dbPath, clock: clock}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// The read-only connection cannot create the file or schema.
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateScan records the start of a scan of source and returns its ID.
func (s *SqliteStore) CreateScan(ctx context.Context, source string) (scanID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertScanSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, source, s.clock.Now().UTC().UnixNano())
	if err != nil {
		err = fmt.Errorf("inserting scan: %w", err)
		return
	}

	scanID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting scan ID: %w", err)
	}
	return
}

// SaveWaypoints appends waypoints to a scan in one transaction. Either all
// of them are stored or none are.
func (s *SqliteStore) SaveWaypoints(ctx context.Context, scanID int64, waypoints []geo.Waypoint) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	var exists int
	if err = tx.QueryRowContext(ctx, selectScanExistsSQL, scanID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrScanNotFound, scanID)
		}
		return fmt.Errorf("looking up scan: %w", err)
	}

	var seq int64
	if err = tx.QueryRowContext(ctx, selectNextSeqSQL, scanID).Scan(&seq); err != nil {
		return fmt.Errorf("reading next sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertWaypointSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, w := range waypoints {
		if _, err = stmt.ExecContext(ctx,
			scanID,
			seq+int64(i),
			float64(w.Latitude()),
			float64(w.Longitude()),
			float64(w.Altitude()),
		); err != nil {
			return fmt.Errorf("inserting waypoint %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Waypoints returns the waypoints of a scan in the order they were saved.
func (s *SqliteStore) Waypoints(ctx context.Context, scanID int64) (waypoints []geo.Waypoint, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	var exists int
	if err = db.QueryRowContext(ctx, selectScanExistsSQL, scanID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %d", ErrScanNotFound, scanID)
			return
		}
		err = fmt.Errorf("looking up scan: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectWaypointsSQL, scanID)
	if err != nil {
		err = fmt.Errorf("querying waypoints: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	waypoints = []geo.Waypoint{}
	for rows.Next() {
		var lat, lon, alt float64
		if err = rows.Scan(&lat, &lon, &alt); err != nil {
			err = fmt.Errorf("scanning waypoint: %w", err)
			return
		}
		var w geo.Waypoint
		if w, err = geo.NewWaypoint(geo.Degrees(lat), geo.Degrees(lon), geo.Metres(alt)); err != nil {
			err = fmt.Errorf("stored waypoint %d of scan %d: %w", len(waypoints), scanID, err)
			return
		}
		waypoints = append(waypoints, w)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating waypoints: %w", err)
	}
	return
}

// Scans lists every stored scan, oldest first.
func (s *SqliteStore) Scans(ctx context.Context) (scans []Scan, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectScansSQL)
	if err != nil {
		err = fmt.Errorf("querying scans: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var (
			sc        Scan
			startedAt int64
		)
		if err = rows.Scan(&sc.ID, &sc.Source, &startedAt, &sc.Waypoints); err != nil {
			err = fmt.Errorf("scanning scan: %w", err)
			return
		}
		sc.StartedAt = time.Unix(0, startedAt).UTC()
		scans = append(scans, sc)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating scans: %w", err)
	}
	return
}

// Close closes both connections. It is safe to call more than once.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing read connection: %w", err))
			}
		}
		if s.writeDB != nil {
			if err := s.writeDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing write connection: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
